// Package config は各サービスの起動時設定を提供する。
//
// .env ファイル、環境変数、コマンドライン引数から設定を読み込む。
// 設定は起動時に一度だけ読み込まれ、ホットリロードは行わない。
package config

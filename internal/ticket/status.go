package ticket

// Status はチケットの状態を表す。
type Status string

const (
	// StatusNew は作成直後の状態。
	StatusNew Status = "New"
	// StatusInProgress は対応中の状態。
	StatusInProgress Status = "In Progress"
	// StatusDone は完了した状態。
	StatusDone Status = "Done"
)

// Valid は状態が定義済みの値かどうかを返す。
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

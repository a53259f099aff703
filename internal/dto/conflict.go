package dto

// ── 时间冲突检测 DTO ──

// ConflictSide 冲突一方的描述信息，足以渲染用户可读的提示
type ConflictSide struct {
	Course      string `json:"course"`
	SessionType string `json:"session_type"`
	Time        string `json:"time"` // "HH:MM-HH:MM"
}

// ConflictPair 一对相互冲突的场次（新选场次 × 已选场次）
type ConflictPair struct {
	NewSession      ConflictSide `json:"new_session"`
	ExistingSession ConflictSide `json:"existing_session"`
}

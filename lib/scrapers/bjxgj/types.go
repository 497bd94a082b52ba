package bjxgj

// Record kinds as declared by the backend in the `type` field of the
// record list. Anything else is unsupported and skipped by callers.
const (
	TypeRosterDump  = 0
	TypeScoreSheet  = 4
	TypeStudentInfo = 15
)

type QRTicket struct {
	Ticket string `json:"ticket"`
	Random string `json:"random"`
}

type LoginStatus struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	// the issued session token when Code == 1
	Data string `json:"data"`
}

type Child struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// Record is one selectable entry of the parent/record list.
type Record struct {
	ID          string `json:"_id"`
	Type        int    `json:"type"`
	Cls         string `json:"cls"`
	Title       string `json:"title"`
	CreatorName string `json:"creator_wx_name"`
	// the sheet creator's openid, doubles as the imprint for score lookups
	CreatorOpenID string `json:"creator_wx_openid"`
	// score sheet id, only present when Type == TypeScoreSheet
	Score string `json:"score"`
	// attached header and detail lists, only present when Type == TypeStudentInfo
	InfoNames    []string      `json:"info_names"`
	StudentInfos []StudentInfo `json:"student_infos"`
}

type StudentInfo struct {
	Name  string      `json:"name"`
	Infos []InfoValue `json:"infos"`
}

type InfoValue struct {
	NewestValue string `json:"newest_value"`
}

type ClassInfo struct {
	ID        string `json:"_id"`
	ClassName string `json:"class_name"`
}

// Member is one entry of the class member dump. An empty TeachSubject
// marks a student, anything else a teacher of that subject.
type Member struct {
	Name         string         `json:"name"`
	Phone        string         `json:"phone"`
	WxName       string         `json:"wx_name"`
	Avatar       string         `json:"avatar"`
	TeachSubject string         `json:"teach_subject"`
	Family       []FamilyMember `json:"family"`
}

type FamilyMember struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	WxName   string `json:"wx_name"`
	Avatar   string `json:"avatar"`
	Relation string `json:"relation"`
}

type ScoreEntry struct {
	Subject string `json:"subject"`
	Score   string `json:"score"`
}

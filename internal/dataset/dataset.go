package dataset

// Field keys exposed by the time-series rows.
const (
	KeyActiveAgents    = "activeAgents"
	KeyNewAgents       = "newAgents"
	KeyChurnRate       = "churnRate"
	KeyAvgRevenue      = "avgRevenue"
	KeyTotalRevenue    = "totalRevenue"
	KeySuccessRate     = "successRate"
	KeyAvgResponseTime = "avgResponseTime"
	KeyTasksCompleted  = "tasksCompleted"
	KeyShare           = "share"
)

// Row is one entry of a series, addressable by field key.
type Row interface {
	Label() string
	Value(key string) (float64, bool)
}

// AdoptionPoint tracks agent adoption for a period.
type AdoptionPoint struct {
	Period       string  `json:"period" validate:"required"`
	ActiveAgents int     `json:"activeAgents" validate:"gte=0"`
	NewAgents    int     `json:"newAgents" validate:"gte=0"`
	ChurnRate    float64 `json:"churnRate" validate:"gte=0,lte=100"`
}

// Label implements Row.
func (p AdoptionPoint) Label() string { return p.Period }

// Value implements Row.
func (p AdoptionPoint) Value(key string) (float64, bool) {
	switch key {
	case KeyActiveAgents:
		return float64(p.ActiveAgents), true
	case KeyNewAgents:
		return float64(p.NewAgents), true
	case KeyChurnRate:
		return p.ChurnRate, true
	}
	return 0, false
}

// RevenuePoint carries per-agent and total revenue in USD.
type RevenuePoint struct {
	Period       string  `json:"period" validate:"required"`
	AvgRevenue   float64 `json:"avgRevenue" validate:"gte=0"`
	TotalRevenue float64 `json:"totalRevenue" validate:"gte=0"`
}

// Label implements Row.
func (p RevenuePoint) Label() string { return p.Period }

// Value implements Row.
func (p RevenuePoint) Value(key string) (float64, bool) {
	switch key {
	case KeyAvgRevenue:
		return p.AvgRevenue, true
	case KeyTotalRevenue:
		return p.TotalRevenue, true
	}
	return 0, false
}

// PerformancePoint carries task execution quality for a period.
type PerformancePoint struct {
	Period          string  `json:"period" validate:"required"`
	SuccessRate     float64 `json:"successRate" validate:"gte=0,lte=100"`
	AvgResponseTime float64 `json:"avgResponseTime" validate:"gte=0"`
	TasksCompleted  int     `json:"tasksCompleted" validate:"gte=0"`
}

// Label implements Row.
func (p PerformancePoint) Label() string { return p.Period }

// Value implements Row.
func (p PerformancePoint) Value(key string) (float64, bool) {
	switch key {
	case KeySuccessRate:
		return p.SuccessRate, true
	case KeyAvgResponseTime:
		return p.AvgResponseTime, true
	case KeyTasksCompleted:
		return float64(p.TasksCompleted), true
	}
	return 0, false
}

// TaskTypeShare is one slice of the task distribution. Shares are percentages
// and the rows of a dataset are expected to add up to 100.
type TaskTypeShare struct {
	Category   string  `json:"category" validate:"required"`
	Share      float64 `json:"share" validate:"gte=0,lte=100"`
	ColorToken string  `json:"colorToken" validate:"required"`
}

// Label implements Row.
func (s TaskTypeShare) Label() string { return s.Category }

// Value implements Row.
func (s TaskTypeShare) Value(key string) (float64, bool) {
	if key == KeyShare {
		return s.Share, true
	}
	return 0, false
}

// SummaryMetric is a headline figure shown as a card. DisplayValue is already
// formatted and is rendered verbatim.
type SummaryMetric struct {
	Title         string  `json:"title" validate:"required"`
	DisplayValue  string  `json:"displayValue" validate:"required"`
	ChangePercent float64 `json:"changePercent"`
	Subtitle      string  `json:"subtitle"`
	ColorToken    string  `json:"colorToken" validate:"required"`
	IconToken     string  `json:"iconToken" validate:"required"`
}

// Dataset bundles every table the dashboard reads.
type Dataset struct {
	Adoption    []AdoptionPoint    `json:"adoption" validate:"required,min=1,dive"`
	Revenue     []RevenuePoint     `json:"revenue" validate:"required,min=1,dive"`
	Performance []PerformancePoint `json:"performance" validate:"required,min=1,dive"`
	TaskTypes   []TaskTypeShare    `json:"taskTypes" validate:"required,min=1,dive"`
	Summary     []SummaryMetric    `json:"summary" validate:"required,len=4,dive"`
}

// Rows adapts a typed series to the Row interface.
func Rows[T Row](points []T) []Row {
	rows := make([]Row, 0, len(points))
	for _, p := range points {
		rows = append(rows, p)
	}
	return rows
}

// Clone returns a deep copy so callers can never alias the provider's slices.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Adoption:    append([]AdoptionPoint(nil), d.Adoption...),
		Revenue:     append([]RevenuePoint(nil), d.Revenue...),
		Performance: append([]PerformancePoint(nil), d.Performance...),
		TaskTypes:   append([]TaskTypeShare(nil), d.TaskTypes...),
		Summary:     append([]SummaryMetric(nil), d.Summary...),
	}
}

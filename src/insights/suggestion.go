package insights

type SpenderType string

const (
	Saver           SpenderType = "Saver"
	Balanced        SpenderType = "Balanced"
	HighSpender     SpenderType = "High Spender"
	CriticalSpender SpenderType = "Critical Spender"
)

type band struct {
	below      float64
	userType   SpenderType
	suggestion string
}

// Bands are checked in order; the first whose upper bound exceeds the ratio wins.
var bands = []band{
	{0.3, Saver, "You're doing great! Consider investing your surplus income."},
	{0.6, Balanced, "Good job! Try tracking unnecessary subscriptions to save more."},
	{0.9, HighSpender, "Watch your expenses. Maybe cut down on luxury or dining."},
}

var critical = band{userType: CriticalSpender, suggestion: "Your spending exceeds income! Prioritize essentials and budget tightly."}

type Suggestion struct {
	UserType   SpenderType `json:"userType"`
	Income     float64     `json:"income"`
	Expense    float64     `json:"expense"`
	Balance    float64     `json:"balance"`
	Ratio      float64     `json:"ratio"`
	Suggestion string      `json:"suggestion"`
}

// SpendRatio is expense/income, or 1 when there is no income.
func SpendRatio(income, expense float64) float64 {
	if income <= 0 {
		return 1
	}
	return expense / income
}

func Classify(ratio float64) (SpenderType, string) {
	for _, b := range bands {
		if ratio < b.below {
			return b.userType, b.suggestion
		}
	}
	return critical.userType, critical.suggestion
}

func Suggest(income, expense float64) Suggestion {
	ratio := SpendRatio(income, expense)
	userType, text := Classify(ratio)
	return Suggestion{
		UserType:   userType,
		Income:     income,
		Expense:    expense,
		Balance:    income - expense,
		Ratio:      ratio,
		Suggestion: text,
	}
}

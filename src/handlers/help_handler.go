package handlers

import (
	"net/http"

	"gajanji-server/src/util"
)

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqs = []FAQ{
	{
		Question: "How do I add a transaction?",
		Answer:   "Go to the 'Add Transaction' page from the main navigation. Fill in the amount, type, category and date, then save it to add it to your records.",
	},
	{
		Question: "How do I sign in with Google?",
		Answer:   "Use the 'Continue with Google' button on the login page. Your account is created and verified automatically the first time you sign in.",
	},
	{
		Question: "Can I export my transaction data?",
		Answer:   "Yes. Open the 'Reports' section, pick a date range and download it as PDF or CSV.",
	},
	{
		Question: "How do I set up a budget?",
		Answer:   "Open the 'Budgets' section and create a budget. Pick the category, the amount, the recurrence and the alert threshold. You get one email when spending in the current period reaches the threshold.",
	},
	{
		Question: "Why can't I see my recent transactions?",
		Answer:   "Check the selected period and filters first. If they are correct, refresh the page.",
	},
	{
		Question: "How do I categorize my expenses?",
		Answer:   "Each transaction carries a free-text category. Edit a transaction to move it to another category; the category view updates immediately.",
	},
	{
		Question: "How do I stop budget alert emails?",
		Answer:   "Turn off mailing in your profile. Alerts resume when you turn it back on.",
	},
	{
		Question: "Can I use the app on multiple devices?",
		Answer:   "Yes. Your data lives on the server, so signing in on any device shows the same records.",
	},
}

func GetFAQs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, faqs)
	}
}

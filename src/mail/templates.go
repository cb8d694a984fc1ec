package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"gajanji-server/src/models"

	"github.com/shopspring/decimal"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/*.txt"))
)

type verificationData struct {
	Name string
	Link string
	Year int
}

// VerificationEmail builds the message carrying the account verification link.
func VerificationEmail(to, name, link string) (Message, error) {
	data := verificationData{Name: name, Link: link, Year: time.Now().Year()}
	return render(to, "Account Verification", "verification", data)
}

type budgetAlertData struct {
	Name       string
	BudgetName string
	Category   string
	Percent    string
	Amount     string
	Spent      string
	Threshold  string
	Link       string
	Year       int
}

// BudgetAlertEmail builds the threshold alert for one budget.
func BudgetAlertEmail(user *models.User, b models.Budget, spent, percent float64, link string) (Message, error) {
	currency := user.Currency
	if currency == "" {
		currency = "USD"
	}
	data := budgetAlertData{
		Name:       user.Name,
		BudgetName: b.Name,
		Category:   b.Category,
		Percent:    decimal.NewFromFloat(percent).StringFixed(0),
		Amount:     FormatMoney(b.Amount, currency),
		Spent:      FormatMoney(spent, currency),
		Threshold:  decimal.NewFromFloat(b.ThresholdNotify).String(),
		Link:       link,
		Year:       time.Now().Year(),
	}
	return render(user.Email, "Budget Alert: "+b.Name, "budget_alert", data)
}

// FormatMoney renders an amount with two decimals after its currency code.
func FormatMoney(amount float64, currency string) string {
	return currency + " " + decimal.NewFromFloat(amount).StringFixed(2)
}

func render(to, subject, name string, data any) (Message, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s text: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s html: %w", name, err)
	}
	return Message{To: to, Subject: subject, Text: text.String(), HTML: html.String()}, nil
}

package academy

import (
	"net/mail"

	"github.com/sreshtta/academy/core"
)

const FeeReminderTemplate = "fee_reminder"

const feeReminderText = `Dear {{.Data.Name}},

This is a reminder from {{.AppName}}: {{.Data.PendingFees}} of your {{.Data.TotalFees}} fees are still pending.
{{range .Data.Overdue}}
- {{.Month}}: {{.Amount}} was due on {{.DueDate}}{{end}}

You can review your fee status at {{.FrontendBaseURL}}.
`

const feeReminderHTML = `<p>Dear {{.Data.Name}},</p>
<p>This is a reminder from {{.AppName}}: <strong>{{.Data.PendingFees}}</strong> of your {{.Data.TotalFees}} fees are still pending.</p>
{{if .Data.Overdue}}<ul>{{range .Data.Overdue}}<li>{{.Month}}: {{.Amount}} was due on {{.DueDate}}</li>{{end}}</ul>{{end}}
<p><a href="{{.FrontendBaseURL}}">Review your fee status</a></p>
`

func init() {
	if err := core.RegisterEmailTemplate(FeeReminderTemplate, feeReminderText, feeReminderHTML); err != nil {
		panic(err)
	}
}

// FeeReminderData is the data of the fee reminder template.
type FeeReminderData struct {
	Name        string
	PendingFees int
	TotalFees   int
	Overdue     []MonthlyFee
}

// FeeReminders builds one reminder per student with pending fees.
func FeeReminders(students []Student, schedule func(Student) []MonthlyFee) []*core.EmailMessage {
	var msgs []*core.EmailMessage
	for _, s := range students {
		if s.PendingFees <= 0 || s.Email == "" {
			continue
		}
		data := FeeReminderData{Name: s.Name, PendingFees: s.PendingFees, TotalFees: s.TotalFees}
		if schedule != nil {
			for _, m := range schedule(s) {
				if m.Status == Overdue {
					data.Overdue = append(data.Overdue, m)
				}
			}
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: s.Name, Address: s.Email}},
			Subject:      "Pending fees reminder",
			TemplateName: FeeReminderTemplate,
			TemplateData: data,
		})
	}
	return msgs
}

package academy

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sreshtta/academy/core"
)

var (
	// custom validation tags & texts
	roleTag             = "role"
	roleText            = "role must be one of student, staff or admin"
	attendanceStatusTag = "attendance_status"
	attendanceStatusTxt = "status must be one of present, absent or late"
	paymentMethodTag    = "payment_method"
	paymentMethodText   = "method must be one of cash, card, online or upi"
	paymentStatusTag    = "payment_status"
	paymentStatusText   = "status must be one of paid, pending or overdue"
	ltefieldTag         = "ltefield"
	ltefieldText        = "{0} cannot exceed the total"
)

// InitValidators registers the academy validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, oneOfValidation(string(RoleStudent), string(RoleStaff), string(RoleAdmin)))
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(attendanceStatusTag, oneOfValidation(string(Present), string(Absent), string(Late)))
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusTxt)

	_ = validate.RegisterValidation(paymentMethodTag, oneOfValidation(string(Cash), string(Card), string(Online), string(UPI)))
	core.RegisterCustomTranslation(validate, translator, paymentMethodTag, paymentMethodText)

	_ = validate.RegisterValidation(paymentStatusTag, oneOfValidation(string(Paid), string(Pending), string(Overdue)))
	core.RegisterCustomTranslation(validate, translator, paymentStatusTag, paymentStatusText)

	core.RegisterCustomTranslation(validate, translator, ltefieldTag, ltefieldText, true)
}

// NewValidator returns a validator with the core & academy tags registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate, translator
}

func oneOfValidation(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return core.ContainsString(values, fl.Field().String())
	}
}

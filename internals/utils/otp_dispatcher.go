package utils

import "log"

// OTP event names carried through to delivery, distinguishing message copy.
const (
	EventLoginOTP         = "login_otp"
	EventPasswordResetOTP = "password_reset_otp"
)

// SMSSender delivers a code to a mobile number. The production gateway is
// deployment-specific, so the default implementation just logs; anything
// satisfying this interface can be plugged into the dispatcher.
type SMSSender interface {
	SendOTP(mobile string, event string, code string) error
}

// LogSMSSender is the stand-in gateway used when no SMS provider is
// configured.
type LogSMSSender struct{}

func (LogSMSSender) SendOTP(mobile string, event string, code string) error {
	log.Printf("SMS gateway not configured, dropping %s code for %s", event, mobile)
	return nil
}

// OTPDispatcher fans one code out to whichever channels the user has. The
// core hands it a code and an event name; delivery failures are logged, not
// surfaced, since the code is already persisted and resendable.
type OTPDispatcher struct {
	Email *EmailManager
	SMS   SMSSender
}

func NewOTPDispatcher(email *EmailManager, sms SMSSender) *OTPDispatcher {
	if sms == nil {
		sms = LogSMSSender{}
	}
	return &OTPDispatcher{Email: email, SMS: sms}
}

// Dispatch sends code to the given mobile and/or email; either may be empty.
func (d *OTPDispatcher) Dispatch(mobile, email, event, code string) {
	if mobile != "" {
		if err := d.SMS.SendOTP(mobile, event, code); err != nil {
			log.Printf("Failed to send %s SMS to %s: %v", event, mobile, err)
		}
	}
	if email == "" {
		return
	}

	var err error
	switch event {
	case EventPasswordResetOTP:
		err = d.Email.SendPasswordResetOTP(email, code)
	default:
		err = d.Email.SendLoginOTP(email, code)
	}
	if err != nil {
		log.Printf("Failed to send %s email to %s: %v", event, email, err)
	}
}

package mailer

// EmailJob is a fully rendered message handed to a Sender in-process.
type EmailJob struct {
	To      string
	Subject string
	Text    string
	HTML    string // optional
}

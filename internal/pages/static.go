package pages

import "github.com/serroba/clubin-web/internal/seo"

// ContactEmail receives partner and legal questions.
const ContactEmail = "hello@clubin.in"

const meetingURL = "https://calendar.google.com/calendar/u/0/r/eventedit" +
	"?text=Clubin+Club+Partnership+Meeting" +
	"&details=Meeting+to+discuss+listing+your+club+on+Clubin+app.&location=Google+Meet"

// Section is one headed block of a static page.
type Section struct {
	Heading string
	Body    string
	Items   []string
}

// Static is a page whose copy does not come from the backend.
type Static struct {
	Head        *seo.Head
	Path        string
	Name        string
	Description string
	Heading     string
	Intro       string
	Sections    []Section
	ActionURL   string
	ActionLabel string
}

// ListYourClub pitches the venue partnership.
func ListYourClub() *Static {
	return &Static{
		Path: "/list-your-club",
		Name: "List Your Club on Clubin",
		Description: "Partner with Clubin to list your nightclub, manage guestlists and table bookings, " +
			"and reach a young nightlife audience across India.",
		Heading: "List your club on Clubin",
		Intro:   "Guestlists, table bookings and door scanning for your venue, live within 48 hours.",
		Sections: []Section{
			{
				Heading: "How it works",
				Items: []string{
					"Schedule a meeting with our partnerships team.",
					"We set up your dashboard, pricing and door team.",
					"Your club and events go live in the Clubin app.",
				},
			},
			{
				Heading: "What you get",
				Items: []string{
					"A revenue dashboard for bookings, footfall and growth.",
					"Share links for every event.",
					"QR ticket scanning at the door.",
					"Push notifications to nightlife fans near you.",
					"Demand based table pricing.",
					"Payouts straight to your account.",
				},
			},
		},
		ActionURL:   meetingURL,
		ActionLabel: "Schedule a meeting",
	}
}

// Terms is the terms of service.
func Terms() *Static {
	return &Static{
		Path:        "/terms",
		Name:        "Terms of Service",
		Description: "The rules for using the Clubin website and apps.",
		Heading:     "Terms of Service",
		Sections: []Section{
			{Heading: "Using Clubin", Body: "These terms cover the clubin.co.in website and the Clubin apps. " +
				"Using either means you accept them."},
			{Heading: "Eligibility", Body: "You must be 18 or older to use Clubin."},
			{Heading: "Accounts", Body: "Keep your account details accurate and your password safe. " +
				"You are responsible for activity on your account."},
			{Heading: "Bookings and payments", Body: "Guestlists, tables and tickets depend on availability " +
				"and on each venue's own terms. Payments go through third party aggregators. " +
				"Fees are not refundable unless the venue says otherwise."},
			{Heading: "Right of admission", Body: "A booking does not guarantee entry. Venues keep the right " +
				"of admission and you must follow their dress code and house rules."},
			{Heading: "Liability", Body: "As far as the law allows, Clubin is not liable for indirect or " +
				"consequential losses arising from use of the platform."},
			{Heading: "Changes", Body: "We may change these terms and will post the new version here. " +
				"Using Clubin after a change means you accept it."},
		},
	}
}

// Privacy is the privacy policy.
func Privacy() *Static {
	return &Static{
		Path:        "/privacy",
		Name:        "Privacy Policy",
		Description: "How Clubin collects, uses and protects your data.",
		Heading:     "Privacy Policy",
		Sections: []Section{
			{Heading: "What we collect", Items: []string{
				"Account and booking details such as name, email, phone and payment information.",
				"Usage data such as device, IP address and pages visited.",
			}},
			{Heading: "How we use it", Body: "To run the platform, process bookings, improve Clubin " +
				"and contact you about your account and offers."},
			{Heading: "Who we share it with", Body: "We do not sell personal data.", Items: []string{
				"Venues get the details needed to honour your booking.",
				"Service providers handle payments and hosting for us.",
				"Authorities, when the law requires it.",
			}},
			{Heading: "Security", Body: "We protect your data but no transmission or storage is fully secure."},
			{Heading: "Your rights", Body: "You can ask to access, correct or delete your data " +
				"from the app or by writing to us."},
			{Heading: "Changes", Body: "Updates to this policy are posted on this page."},
		},
	}
}

package catalog

// GuestlistStatus describes booking availability for an event.
type GuestlistStatus string

const (
	GuestlistOpen    GuestlistStatus = "open"
	GuestlistClosing GuestlistStatus = "closing"
	GuestlistClosed  GuestlistStatus = "closed"
)

// Club is a venue as returned by the backend API.
type Club struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Location      string         `json:"location"`
	Address       string         `json:"address,omitempty"`
	MapURL        string         `json:"mapUrl,omitempty"`
	Description   string         `json:"description,omitempty"`
	ImageURL      string         `json:"imageUrl"`
	FloorplanURL  string         `json:"floorplanUrl,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
	Events        []Event        `json:"events,omitempty"`
	Tables        []ClubTable    `json:"tables,omitempty"`
	PromoterClubs []PromoterClub `json:"promoterClubs,omitempty"`
}

// ClubTable is a bookable table at a club.
type ClubTable struct {
	ID          string  `json:"id"`
	ClubID      string  `json:"clubId"`
	Name        string  `json:"name"`
	Capacity    int     `json:"capacity"`
	BasePrice   float64 `json:"basePrice"`
	Description string  `json:"description,omitempty"`
}

// ClubRef is the short club reference embedded in events.
type ClubRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	MapURL       string `json:"mapUrl,omitempty"`
	FloorplanURL string `json:"floorplanUrl,omitempty"`
}

// Event is a party or night at a club.
type Event struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Club               string          `json:"club"`
	ClubID             string          `json:"clubId,omitempty"`
	Location           string          `json:"location"`
	Description        string          `json:"description"`
	Rules              string          `json:"rules,omitempty"`
	Genre              string          `json:"genre"`
	ImageURL           string          `json:"imageUrl"`
	VideoURL           string          `json:"videoUrl,omitempty"`
	Gallery            []string        `json:"gallery,omitempty"`
	Price              float64         `json:"price"`
	PriceLabel         string          `json:"priceLabel"`
	StagPrice          float64         `json:"stagPrice"`
	CouplePrice        float64         `json:"couplePrice"`
	LadiesPrice        float64         `json:"ladiesPrice"`
	Date               string          `json:"date"`
	StartTime          string          `json:"startTime"`
	EndTime            string          `json:"endTime"`
	GuestlistStatus    GuestlistStatus `json:"guestlistStatus"`
	GuestlistLimit     *int            `json:"guestlistLimit,omitempty"`
	GuestlistCloseTime *string         `json:"guestlistCloseTime,omitempty"`
	Featured           bool            `json:"featured"`
	CreatedAt          string          `json:"createdAt,omitempty"`
	UpdatedAt          string          `json:"updatedAt,omitempty"`
	ClubRef            *ClubRef        `json:"clubRef,omitempty"`
	PromoterRef        *PromoterRef    `json:"promoterRef,omitempty"`
	EventTables        []EventTable    `json:"eventTables,omitempty"`
	SpotsRemaining     *int            `json:"spotsRemaining,omitempty"`
}

// GuestlistOpen reports whether guests can still book.
func (e *Event) GuestlistOpen() bool {
	return e.GuestlistStatus == GuestlistOpen || e.GuestlistStatus == GuestlistClosing
}

// EventTable is a table offered for a specific event.
type EventTable struct {
	ID            string     `json:"id"`
	EventID       string     `json:"eventId"`
	ClubTableID   string     `json:"clubTableId"`
	Price         float64    `json:"price"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Available     bool       `json:"available"`
	ClubTable     *ClubTable `json:"clubTable,omitempty"`
}

// PromoterRef is the promoter reference embedded in events.
type PromoterRef struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Region  string `json:"region,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// PromoterClub links a promoter to a club.
type PromoterClub struct {
	Promoter *PromoterRef `json:"promoter,omitempty"`
}

// Promoter is an event organizer.
type Promoter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Region       string `json:"region,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
	InstagramURL string `json:"instagramUrl,omitempty"`
}

// PromoterPublic is the public promoter profile with its events.
type PromoterPublic struct {
	Promoter Promoter `json:"promoter"`
	Events   []Event  `json:"events"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	City     string
	Upcoming bool
}

// ShortLink maps an opaque code to exactly one entity. Immutable once created.
type ShortLink struct {
	Code     string     `json:"code"`
	Type     EntityType `json:"type"`
	TargetID string     `json:"targetId"`
}

// CreatedShortLink is the backend answer to a short link creation.
type CreatedShortLink struct {
	Code     string `json:"code"`
	ShortURL string `json:"shortUrl"`
}

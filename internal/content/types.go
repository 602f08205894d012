package content

// Document is the site's content file, conventionally config/content.json.
// Field names mirror the JSON keys authored by hand.
type Document struct {
	Site     SiteInfo `json:"site"`
	Header   Header   `json:"header"`
	Banner   Banner   `json:"banner"`
	Sections Sections `json:"sections"`
	Contact  Contact  `json:"contact"`
	Footer   Footer   `json:"footer"`
}

// SiteInfo holds document-wide metadata.
type SiteInfo struct {
	Title string `json:"title"`
}

// Header is the page header.
type Header struct {
	Title string `json:"title"`
}

// Image is an image reference.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Banner is the hero block at the top of the home page.
type Banner struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Logo     Image  `json:"logo"`
}

// Section is one of the fixed informational sections on the home page.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   *Image `json:"image,omitempty"`
}

// Sections groups the home page sections.
type Sections struct {
	About     Section       `json:"about"`
	Offerings Section       `json:"offerings"`
	Community Section       `json:"community"`
	Events    EventsSection `json:"events"`
}

// EventsSection is the event listing.
type EventsSection struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ButtonText  string  `json:"buttonText"`
	Items       []Event `json:"items"`
}

// Event is one listed activity. It may carry a nested Article.
type Event struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       *Image   `json:"image,omitempty"`
	Link        string   `json:"link"`
	Article     *Article `json:"article,omitempty"`
}

// Article is the detailed content for one Event.
type Article struct {
	FullTitle string           `json:"fullTitle"`
	Date      string           `json:"date,omitempty"`
	Location  string           `json:"location,omitempty"`
	Duration  string           `json:"duration,omitempty"`
	Tags      []string         `json:"tags,omitempty"`
	Contact   string           `json:"contact,omitempty"`
	Content   []ContentSection `json:"content"`
}

// ContentSection is a heading plus free text. Newlines in Text are line breaks.
type ContentSection struct {
	Section string `json:"section"`
	Text    string `json:"text"`
}

// Contact is the footer contact block.
type Contact struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Form        ContactForm `json:"form"`
	Info        ContactInfo `json:"info"`
}

// ContactForm holds the contact form labels.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Submit  string `json:"submit"`
}

// ContactInfo holds the postal address, email and social handles.
type ContactInfo struct {
	Address Address `json:"address"`
	Email   string  `json:"email"`
	Social  Social  `json:"social"`
}

// Address is a three-line postal address.
type Address struct {
	Organization string `json:"organization"`
	Institution  string `json:"institution"`
	Location     string `json:"location"`
}

// Social holds social media handles.
type Social struct {
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	LinkedIn  string `json:"linkedin"`
}

// Footer is the page footer.
type Footer struct {
	Copyright string `json:"copyright"`
}

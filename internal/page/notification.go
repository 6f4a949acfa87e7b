package page

// Notification is the transient toast shown after a successful add.
type Notification struct {
	Message         string
	AutoCloseMS     int
	Position        string
	Theme           string
	HideProgressBar bool
	CloseOnClick    bool
	PauseOnHover    bool
	Draggable       bool
}

// DefaultNotification is the success toast: bottom-right, dark, closed
// after three seconds or on click.
func DefaultNotification() Notification {
	return Notification{
		Message:      "Success. Check your cart!",
		AutoCloseMS:  3000,
		Position:     "bottom-right",
		Theme:        "dark",
		CloseOnClick: true,
		PauseOnHover: true,
		Draggable:    true,
	}
}

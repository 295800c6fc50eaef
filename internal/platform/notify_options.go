package platform

// AppName identifies the application to the host notification service.
const AppName = "Retouch"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown alongside the
	// notification where the platform supports it.
	IconPath string
	// Timeout is the display time in milliseconds. Zero uses 5000.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout <= 0 {
		return 5000
	}
	return o.Timeout
}

package api

import (
	"fmt"
	"net/url"
)

// Credentials identify a Cloudinary product environment.
type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Validate reports a missing field.
func (c Credentials) Validate() error {
	switch {
	case c.CloudName == "":
		return fmt.Errorf("cloud name is required")
	case c.APIKey == "":
		return fmt.Errorf("api key is required")
	case c.APISecret == "":
		return fmt.Errorf("api secret is required")
	}
	return nil
}

// ParseURL parses a CLOUDINARY_URL of the form
// cloudinary://<api_key>:<api_secret>@<cloud_name>.
func ParseURL(raw string) (Credentials, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Credentials{}, fmt.Errorf("parsing cloudinary url: %w", err)
	}
	if u.Scheme != "cloudinary" {
		return Credentials{}, fmt.Errorf("cloudinary url must use the cloudinary:// scheme, got %q", u.Scheme)
	}
	if u.User == nil {
		return Credentials{}, fmt.Errorf("cloudinary url has no credentials")
	}

	secret, _ := u.User.Password()
	creds := Credentials{
		CloudName: u.Host,
		APIKey:    u.User.Username(),
		APISecret: secret,
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("invalid cloudinary url: %w", err)
	}
	return creds, nil
}

package resources

import (
	"errors"
	"net/url"
	"os"
)

// FetchArchive materializes the archive at rawURL inside destDir and
// returns its local path. http and https need no credentials; sj needs the
// storj access grant.
func FetchArchive(rawURL string, destDir string, storjAccess string) (localPath string, err error) {
	var resourceURL *url.URL
	if resourceURL, err = url.Parse(rawURL); err != nil {
		return
	}

	var resourceHandler ResourceHandler
	switch resourceURL.Scheme {
	case "http", "https":
		resourceHandler = &HTTPResource{URL: *resourceURL}
	case "sj":
		if storjAccess == "" {
			err = errors.New("no storj access grant configured")
			return
		}
		resourceHandler = &StorjResource{URL: *resourceURL, Access: storjAccess}
	default:
		err = errors.New("url schema not allowed")
		return
	}

	if err = os.MkdirAll(destDir, 0755); err != nil {
		return
	}
	resource := NewResource(resourceHandler, destDir)
	if err = resource.Download(); err != nil {
		return
	}
	localPath = resource.LocalPath()
	return
}

// IsRemote reports whether the archive argument names a fetchable URL
// rather than a local file.
func IsRemote(rawURL string) bool {
	resourceURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch resourceURL.Scheme {
	case "http", "https", "sj":
		return true
	}
	return false
}

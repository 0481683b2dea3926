package resources

import (
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type ResourceStatus int

const (
	PENDING ResourceStatus = iota
	DOWNLOADING
	DOWNLOADED
	ERROR
)

type ResourceHandler interface {
	GetURL() url.URL
	Download(resource *Resource)
}

// Resource is one remote file being materialized under Path, with byte
// accounting for progress reporting.
type Resource struct {
	Handler   ResourceHandler
	Path      string
	Total     int64
	Available int64
	Status    ResourceStatus
}

func NewResource(resourceHandler ResourceHandler, resourcePath string) *Resource {
	return &Resource{
		Handler: resourceHandler,
		Path:    resourcePath,
		Status:  PENDING,
	}
}

func (resource *Resource) SetStatus(status ResourceStatus) {
	resource.Status = status
}

func (resource *Resource) Write(buffer []byte) (int, error) {
	bufferSize := len(buffer)
	resource.Available += int64(bufferSize)
	if resource.Total > 0 {
		logrus.Debugf("Downloading... %d/%d (%d%%)", resource.Available, resource.Total, resource.Available*100/resource.Total)
	}
	return bufferSize, nil
}

// LocalPath is where the resource lands: the URL base name inside Path.
func (resource *Resource) LocalPath() string {
	resourceURL := resource.Handler.GetURL()
	return filepath.Join(resource.Path, filepath.Base(resourceURL.Path))
}

// Download fetches the resource synchronously.
func (resource *Resource) Download() (err error) {
	resource.Handler.Download(resource)
	if resource.Status != DOWNLOADED {
		err = errors.New("resource download failed")
	}
	return
}

func (resource *Resource) Save(reader io.Reader) error {
	out, err := os.Create(resource.LocalPath())
	if err != nil {
		logrus.Errorf("%+v", err)
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, io.TeeReader(reader, resource)); err != nil {
		logrus.Errorf("%+v", err)
		return err
	}
	return nil
}

package resources

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"storj.io/uplink"
)

// StorjResource addresses an object as sj://bucket/key with an access
// grant.
type StorjResource struct {
	URL    url.URL
	Access string
}

func (storjResource *StorjResource) GetURL() url.URL {
	return storjResource.URL
}

func (storjResource *StorjResource) objectKey() string {
	return strings.TrimPrefix(storjResource.URL.Path, "/")
}

func (storjResource *StorjResource) Download(resource *Resource) {
	userAccess, err := uplink.ParseAccess(storjResource.Access)
	if err != nil {
		resource.SetStatus(ERROR)
		logrus.Errorf("%+v", err)
		return
	}
	project, err := uplink.OpenProject(context.Background(), userAccess)
	if err != nil {
		resource.SetStatus(ERROR)
		logrus.Errorf("%+v", err)
		return
	}
	defer project.Close()
	resource.SetStatus(DOWNLOADING)
	stat, err := project.StatObject(context.Background(),
		storjResource.URL.Host, storjResource.objectKey())
	if err != nil {
		resource.SetStatus(ERROR)
		logrus.Errorf("%+v", err)
		return
	}
	resource.Total = stat.System.ContentLength
	download, err := project.DownloadObject(context.Background(),
		storjResource.URL.Host, storjResource.objectKey(), nil)
	if err != nil {
		resource.SetStatus(ERROR)
		logrus.Errorf("%+v", err)
		return
	}
	defer download.Close()
	if err := resource.Save(download); err != nil {
		resource.SetStatus(ERROR)
		logrus.Errorf("%+v", err)
		return
	}
	resource.SetStatus(DOWNLOADED)
}

// Upload pushes a local file to the addressed object. Used to replicate
// finished pull archives offsite.
func (storjResource *StorjResource) Upload(localPath string) (err error) {
	var userAccess *uplink.Access
	if userAccess, err = uplink.ParseAccess(storjResource.Access); err != nil {
		return
	}
	var project *uplink.Project
	if project, err = uplink.OpenProject(context.Background(), userAccess); err != nil {
		return
	}
	defer project.Close()
	if _, err = project.EnsureBucket(context.Background(), storjResource.URL.Host); err != nil {
		return
	}
	var upload *uplink.Upload
	if upload, err = project.UploadObject(context.Background(),
		storjResource.URL.Host, storjResource.objectKey(), nil); err != nil {
		return
	}
	var file *os.File
	if file, err = os.Open(localPath); err != nil {
		upload.Abort()
		return
	}
	defer file.Close()
	if _, err = io.Copy(upload, file); err != nil {
		upload.Abort()
		return
	}
	return upload.Commit()
}

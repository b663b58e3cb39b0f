package google

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"

	"github.com/machinelog/machinelog-app-sheets/log"
	"github.com/machinelog/machinelog-app-sheets/report"
)

// Archive uploads exported reports to a Drive folder.
type Archive struct {
	service *drive.Service
	folder  string
}

func NewArchive(service *drive.Service, folder string) *Archive {
	return &Archive{
		service: service,
		folder:  folder,
	}
}

func (a *Archive) Archive(ctx context.Context, artifact report.Artifact) (string, error) {
	file := drive.File{
		Name:     artifact.Name,
		MimeType: artifact.MimeType,
	}

	if a.folder != "" {
		file.Parents = []string{a.folder}
	}

	created, err := a.service.Files.
		Create(&file).
		Media(bytes.NewReader(artifact.Data)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrapf(err, "unable to archive %v", artifact.Name)
	}

	log.Debugf("archived %v as %v", artifact.Name, created.Id)

	return created.WebViewLink, nil
}

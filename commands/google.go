package commands

import (
	"context"
	"fmt"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/machinelog/machinelog-app-sheets/config"
	"github.com/machinelog/machinelog-app-sheets/google"
	"github.com/machinelog/machinelog-app-sheets/log"
)

type services struct {
	auth   *google.Auth
	sheets *sheets.Service
	docs   *docs.Service
	drive  *drive.Service
	gmail  *gmail.Service
}

// session authorises and creates the Google API clients on first use, so that commands
// working on a local workbook only need credentials for the services they actually use.
type session struct {
	config *config.Config
	cached *services
}

func (s *session) services(ctx context.Context) (*services, error) {
	if s.cached != nil {
		return s.cached, nil
	}

	log.Debugf("authorising with credentials %v", s.config.Credentials)

	auth, err := google.Authorize(ctx, s.config.Credentials, s.config.Workdir)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%v)", err)
	}

	client := option.WithHTTPClient(auth.Client)

	sheetsService, err := sheets.NewService(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	docsService, err := docs.NewService(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Docs client (%v)", err)
	}

	driveService, err := drive.NewService(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%v)", err)
	}

	gmailService, err := gmail.NewService(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Gmail client (%v)", err)
	}

	s.cached = &services{
		auth:   auth,
		sheets: sheetsService,
		docs:   docsService,
		drive:  driveService,
		gmail:  gmailService,
	}

	return s.cached, nil
}

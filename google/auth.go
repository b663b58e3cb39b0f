package google

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/context"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"

	"github.com/machinelog/machinelog-app-sheets/log"
)

// Scopes lists the OAuth2 scopes requested for the spreadsheet, document, export, archive and mail operations.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	docs.DocumentsScope,
	drive.DriveFileScope,
	drive.DriveReadonlyScope,
	gmail.GmailSendScope,
}

// ErrNotAuthorised is returned when an OAuth2 client has no cached tokens.
var ErrNotAuthorised = errors.New("not authorised - run the 'authorise' command first")

// Auth holds the HTTP client and token source for the Google APIs.
type Auth struct {
	Client *http.Client
	Tokens oauth2.TokenSource
}

// Authorize builds an authenticated HTTP client from a credentials file. Service account keys are
// used as is; OAuth2 client credentials require a token file previously saved by Authorise.
func Authorize(ctx context.Context, credentials string, workdir string) (*Auth, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read credentials file %v", credentials)
	}

	if serviceAccount(b) {
		config, err := google.JWTConfigFromJSON(b, Scopes...)
		if err != nil {
			return nil, errors.Wrap(err, "invalid service account credentials")
		}

		return &Auth{
			Client: config.Client(ctx),
			Tokens: config.TokenSource(ctx),
		}, nil
	}

	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid OAuth2 client credentials")
	}

	token, err := tokenFromFile(TokensFile(credentials, workdir))
	if err != nil {
		return nil, ErrNotAuthorised
	}

	tokens := config.TokenSource(ctx, token)

	return &Auth{
		Client: oauth2.NewClient(ctx, tokens),
		Tokens: tokens,
	}, nil
}

// Authorise runs the console OAuth2 flow for client credentials and caches the tokens in the work
// directory. The code is read from 'in'.
func Authorise(ctx context.Context, credentials string, workdir string, in func() (string, error)) (string, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read credentials file %v", credentials)
	}

	if serviceAccount(b) {
		return "", fmt.Errorf("%v is a service account key and does not require authorisation", credentials)
	}

	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return "", errors.Wrap(err, "invalid OAuth2 client credentials")
	}

	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", url)

	code, err := in()
	if err != nil {
		return "", errors.Wrap(err, "unable to read authorization code")
	}

	token, err := config.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return "", errors.Wrap(err, "unable to retrieve token from web")
	}

	file := TokensFile(credentials, workdir)
	if err := saveToken(file, token); err != nil {
		return "", err
	}

	return file, nil
}

// TokensFile returns the path of the cached OAuth2 tokens for a credentials file, i.e.
// <workdir>/.google/<credentials>.tokens
func TokensFile(credentials string, workdir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(workdir, ".google", fmt.Sprintf("%s.tokens", name))
}

func serviceAccount(b []byte) bool {
	credentials := struct {
		Type string `json:"type"`
	}{}

	if err := json.Unmarshal(b, &credentials); err != nil {
		return false
	}

	return credentials.Type == "service_account"
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.WithStack(err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "unable to cache OAuth2 token")
	}

	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return errors.WithStack(err)
	}

	log.Infof("saved OAuth2 tokens to %v", path)

	return nil
}

package geocaching

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"gocaching/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var tracer = telemetry.Tracer("gocaching.lib.geocaching")

const (
	defaultBaseURL  = "https://www.geocaching.com"
	defaultTilesURL = "http://tiles01.geocaching.com"
)

// Session is the authenticated transport every entity goes through.
// It owns the cookie jar, so two Sessions are two accounts.
type Session struct {
	BaseUrl  *url.URL
	TilesUrl string
	Http     *resty.Client
}

type SessionOptions struct {
	// BaseUrl overrides the production site, mostly for tests.
	BaseUrl string
	// TilesUrl overrides the map tile server used by quick loads.
	TilesUrl string
}

func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	base := opts.BaseUrl
	if base == "" {
		base = defaultBaseURL
	}
	tiles := opts.TilesUrl
	if tiles == "" {
		tiles = defaultTilesURL
	}

	baseUrl, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(base)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "geocaching/http")

	s := &Session{
		BaseUrl:  baseUrl,
		TilesUrl: tiles,
		Http:     client,
	}
	return s, nil
}

// Login authenticates the session with a username and password. The
// sign-in page is fetched first to pick up the request verification
// token the form requires.
func (s *Session) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "session:Login")
	defer span.End()

	doc, err := s.Document(ctx, "/account/signin", nil)
	if err != nil {
		return err
	}

	token := doc.Find("input[name=__RequestVerificationToken]").AttrOr("value", "")
	if token == "" {
		return fmt.Errorf("could not find the request verification token")
	}

	_, err = s.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"__RequestVerificationToken": token,
			"UsernameOrEmail":            username,
			"Password":                   password,
		}).
		Post("/account/signin")
	if err != nil {
		return err
	}

	doc, err = s.Document(ctx, "/", nil)
	if err != nil {
		return err
	}
	if doc.Find("a.sign-out, .user-menu").Length() == 0 {
		return ErrLoginFailed
	}
	return nil
}

func (s *Session) get(ctx context.Context, path string, query url.Values) (*resty.Response, error) {
	req := s.Http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	res, err := req.Get(path)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("%s: unexpected status %s", path, res.Status())
	}
	return res, nil
}

// Document fetches a page and parses it. path may be absolute or
// relative to the session's base url.
func (s *Session) Document(ctx context.Context, path string, query url.Values) (*goquery.Document, error) {
	res, err := s.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// JSON fetches decoded data instead of a document.
func (s *Session) JSON(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	res, err := s.get(ctx, path, query)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(res.Body()), nil
}

// PostForm submits form data to a page.
func (s *Session) PostForm(ctx context.Context, path string, form map[string]string) error {
	res, err := s.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("%s: unexpected status %s", path, res.Status())
	}
	return nil
}

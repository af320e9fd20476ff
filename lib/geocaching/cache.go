package geocaching

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gocaching/lib/geo"
	"gocaching/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Cache mirrors one cache record published by the site. Only the
// identifying key is required up front; every other attribute is
// populated on first read by a single full load (see lazyGet).
//
// A Cache is not safe for concurrent use.
type Cache struct {
	session *Session

	wp  string
	url string // absolute detail page url, when constructed from one

	// set by a successful Load so lazy reads never refetch
	loaded bool

	name             field[string]
	location         field[geo.Point]
	cacheType        field[Type]
	size             field[Size]
	state            field[bool]
	found            field[bool]
	difficulty       field[float64]
	terrain          field[float64]
	author           field[string]
	hidden           field[time.Time]
	attributes       field[map[string]bool]
	summary          field[string]
	description      field[string]
	hint             field[string]
	favorites        field[int]
	pmOnly           field[bool]
	logbookToken     field[string]
	trackablePageUrl field[string]
	logPageUrl       field[string]

	logbook    []Log
	trackables []*Trackable
}

// New constructs a cache from its waypoint key.
func New(session *Session, wp string) (*Cache, error) {
	c := &Cache{session: session}
	if err := c.SetWaypoint(wp); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromURL constructs a cache from a detail page url; the waypoint
// is learned on the first load.
func NewFromURL(session *Session, pageUrl string) *Cache {
	return &Cache{session: session, url: pageUrl}
}

// FromTrackable constructs the cache a trackable currently sits in,
// resolving the trackable's location url first if needed.
func FromTrackable(ctx context.Context, t *Trackable) (*Cache, error) {
	locationUrl, err := t.LocationURL(ctx)
	if err != nil {
		return nil, err
	}
	if locationUrl == "" {
		return nil, LoadError{Msg: "trackable is not currently placed in a cache"}
	}
	return NewFromURL(t.session, locationUrl), nil
}

// Fields carries optional attributes for populating a Cache without
// fetching. Nil entries are left unset. Every value goes through the
// same validator as direct assignment.
type Fields struct {
	Name             *string
	Type             *Type
	Size             *Size
	Location         *geo.Point
	State            *bool
	Found            *bool
	Difficulty       *float64
	Terrain          *float64
	Author           *string
	Hidden           *time.Time
	Attributes       map[string]bool
	Summary          *string
	Description      *string
	Hint             *string
	Favorites        *int
	PMOnly           *bool
	LogbookToken     *string
	TrackablePageURL *string
	LogPageURL       *string
}

// Apply assigns every non-nil field through its validator.
func (c *Cache) Apply(ctx context.Context, f Fields) error {
	if f.Name != nil {
		c.SetName(*f.Name)
	}
	if f.Type != nil {
		if err := c.SetType(*f.Type); err != nil {
			return err
		}
	}
	if f.Size != nil {
		if err := c.SetSize(*f.Size); err != nil {
			return err
		}
	}
	if f.Location != nil {
		c.SetLocation(*f.Location)
	}
	if f.State != nil {
		c.SetState(*f.State)
	}
	if f.Found != nil {
		c.SetFound(*f.Found)
	}
	if f.Difficulty != nil {
		if err := c.SetDifficulty(*f.Difficulty); err != nil {
			return err
		}
	}
	if f.Terrain != nil {
		if err := c.SetTerrain(*f.Terrain); err != nil {
			return err
		}
	}
	if f.Author != nil {
		c.SetAuthor(*f.Author)
	}
	if f.Hidden != nil {
		c.SetHidden(*f.Hidden)
	}
	if f.Attributes != nil {
		c.SetAttributes(ctx, f.Attributes)
	}
	if f.Summary != nil {
		c.SetSummary(*f.Summary)
	}
	if f.Description != nil {
		c.SetDescription(*f.Description)
	}
	if f.Hint != nil {
		c.SetHint(*f.Hint)
	}
	if f.Favorites != nil {
		if err := c.SetFavorites(*f.Favorites); err != nil {
			return err
		}
	}
	if f.PMOnly != nil {
		c.SetPMOnly(*f.PMOnly)
	}
	if f.LogbookToken != nil {
		c.SetLogbookToken(*f.LogbookToken)
	}
	if f.TrackablePageURL != nil {
		c.SetTrackablePageURL(*f.TrackablePageURL)
	}
	if f.LogPageURL != nil {
		c.SetLogPageURL(*f.LogPageURL)
	}
	return nil
}

func (c *Cache) String() string { return c.describe() }

// Equal reports whether two caches reference the same record through
// the same session.
func (c *Cache) Equal(other *Cache) bool {
	return c.session == other.session && c.wp == other.wp
}

func (c *Cache) describe() string {
	if c.wp != "" {
		return c.wp
	}
	if c.url != "" {
		return c.url
	}
	return "(unidentified cache)"
}

func (c *Cache) loadedOnce() bool { return c.loaded }

// setters

// SetWaypoint canonicalizes and stores the identity key. The key is
// immutable once set.
func (c *Cache) SetWaypoint(wp string) error {
	wp = strings.ToUpper(strings.TrimSpace(wp))
	if !strings.HasPrefix(wp, "GC") {
		return invalidf("waypoint", "%q does not start with GC", wp)
	}
	if c.wp != "" && c.wp != wp {
		return invalidf("waypoint", "already set to %q", c.wp)
	}
	c.wp = wp
	return nil
}

func (c *Cache) SetName(name string) {
	c.name.put(strings.TrimSpace(name))
}

func (c *Cache) SetLocation(p geo.Point) {
	c.location.put(p)
}

// SetLocationText parses free text coordinates and stores them.
func (c *Cache) SetLocationText(s string) error {
	p, err := geo.Parse(s)
	if err != nil {
		return invalidf("location", "%s", err)
	}
	c.location.put(p)
	return nil
}

func (c *Cache) SetType(t Type) error {
	if !t.valid() {
		return invalidf("cache type", "unknown value %q", string(t))
	}
	c.cacheType.put(t)
	return nil
}

func (c *Cache) SetSize(s Size) error {
	if !s.valid() {
		return invalidf("cache size", "unknown value %q", string(s))
	}
	c.size.put(s)
	return nil
}

func (c *Cache) SetState(active bool) {
	c.state.put(active)
}

func (c *Cache) SetFound(found bool) {
	c.found.put(found)
}

func validRating(r float64) bool {
	// whole or half steps only
	return r >= 1 && r <= 5 && r*2 == math.Trunc(r*2)
}

func (c *Cache) SetDifficulty(d float64) error {
	if !validRating(d) {
		return invalidf("difficulty", "%v is not between 1 and 5 in steps of 0.5", d)
	}
	c.difficulty.put(d)
	return nil
}

func (c *Cache) SetTerrain(t float64) error {
	if !validRating(t) {
		return invalidf("terrain", "%v is not between 1 and 5 in steps of 0.5", t)
	}
	c.terrain.put(t)
	return nil
}

func (c *Cache) SetAuthor(author string) {
	c.author.put(strings.TrimSpace(author))
}

func (c *Cache) SetHidden(d time.Time) {
	c.hidden.put(d)
}

// SetHiddenText parses a date out of free text and stores it.
func (c *Cache) SetHiddenText(s string) error {
	d, err := textutil.ParseDate(s)
	if err != nil {
		return invalidf("hidden", "%s", err)
	}
	c.hidden.put(d)
	return nil
}

// SetAttributes stores the attribute mapping, dropping unknown keys
// with a warning.
func (c *Cache) SetAttributes(ctx context.Context, attributes map[string]bool) {
	c.attributes.put(normalizeAttributes(ctx, attributes))
}

func (c *Cache) SetSummary(summary string) {
	c.summary.put(strings.TrimSpace(summary))
}

func (c *Cache) SetDescription(description string) {
	c.description.put(strings.TrimSpace(description))
}

func (c *Cache) SetHint(hint string) {
	c.hint.put(strings.TrimSpace(hint))
}

func (c *Cache) SetFavorites(favorites int) error {
	if favorites < 0 {
		return invalidf("favorites", "%d is negative", favorites)
	}
	c.favorites.put(favorites)
	return nil
}

func (c *Cache) SetPMOnly(pmOnly bool) {
	c.pmOnly.put(pmOnly)
}

func (c *Cache) SetLogbookToken(token string) {
	c.logbookToken.put(token)
}

func (c *Cache) SetTrackablePageURL(listingUrl string) {
	c.trackablePageUrl.put(listingUrl)
}

func (c *Cache) SetLogPageURL(pageUrl string) {
	c.logPageUrl.put(pageUrl)
}

// accessors; all except Waypoint and PMOnly may trigger one full load

func (c *Cache) Waypoint() string { return c.wp }

func (c *Cache) Name(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.name, "name")
}

func (c *Cache) Location(ctx context.Context) (geo.Point, error) {
	return lazyGet(ctx, c, &c.location, "location")
}

func (c *Cache) Type(ctx context.Context) (Type, error) {
	return lazyGet(ctx, c, &c.cacheType, "type")
}

func (c *Cache) Size(ctx context.Context) (Size, error) {
	return lazyGet(ctx, c, &c.size, "size")
}

// State reports whether the cache is active (not disabled).
func (c *Cache) State(ctx context.Context) (bool, error) {
	return lazyGet(ctx, c, &c.state, "state")
}

// Found reports whether the current account has visited the cache.
func (c *Cache) Found(ctx context.Context) (bool, error) {
	return lazyGet(ctx, c, &c.found, "found")
}

func (c *Cache) Difficulty(ctx context.Context) (float64, error) {
	return lazyGet(ctx, c, &c.difficulty, "difficulty")
}

func (c *Cache) Terrain(ctx context.Context) (float64, error) {
	return lazyGet(ctx, c, &c.terrain, "terrain")
}

func (c *Cache) Author(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.author, "author")
}

func (c *Cache) Hidden(ctx context.Context) (time.Time, error) {
	return lazyGet(ctx, c, &c.hidden, "hidden")
}

func (c *Cache) Attributes(ctx context.Context) (map[string]bool, error) {
	return lazyGet(ctx, c, &c.attributes, "attributes")
}

func (c *Cache) Summary(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.summary, "summary")
}

func (c *Cache) Description(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.description, "description")
}

func (c *Cache) Hint(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.hint, "hint")
}

func (c *Cache) Favorites(ctx context.Context) (int, error) {
	return lazyGet(ctx, c, &c.favorites, "favorites")
}

// PMOnly never triggers a load; it is only populated by LoadQuick or
// direct assignment.
func (c *Cache) PMOnly() (bool, error) {
	if v, ok := c.pmOnly.get(); ok {
		return v, nil
	}
	return false, LoadError{Msg: "pm_only is only populated by LoadQuick or direct assignment"}
}

func (c *Cache) LogbookToken(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.logbookToken, "logbook token")
}

// TrackablePageURL is the trackable listing url, or empty when the
// cache is known to hold no trackables.
func (c *Cache) TrackablePageURL(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.trackablePageUrl, "trackable page url")
}

func (c *Cache) LogPageURL(ctx context.Context) (string, error) {
	return lazyGet(ctx, c, &c.logPageUrl, "log page url")
}

// LogbookEntries returns the logs accumulated by the most recent
// LoadLogbook call.
func (c *Cache) LogbookEntries() []Log { return c.logbook }

// TrackableEntries returns the trackables accumulated by the most
// recent LoadTrackables call.
func (c *Cache) TrackableEntries() []*Trackable { return c.trackables }

// loading

var userTokenRegex = regexp.MustCompile(`userToken\s*=\s*'([^']+)'`)

// iconStem extracts the filename without extension out of an icon src.
func iconStem(src string) string {
	base := path.Base(src)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Load populates every attribute from the cache detail page in one
// pass. It resolves the fetch target from the stored url or the
// waypoint, and fails before any network activity when it has neither.
func (c *Cache) Load(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "cache:Load")
	defer span.End()

	var doc *goquery.Document
	var err error
	switch {
	case c.url != "":
		doc, err = c.session.Document(ctx, c.url, nil)
	case c.wp != "":
		doc, err = c.session.Document(ctx, "seek/cache_details.aspx", url.Values{"wp": {c.wp}})
	default:
		return LoadError{Msg: "cache lacks identifying info for loading"}
	}
	if err != nil {
		return LoadError{Msg: "failed to fetch the cache detail page", Err: err}
	}

	if err := c.populate(ctx, doc); err != nil {
		return err
	}

	c.loaded = true
	slog.DebugContext(ctx, "cache loaded", "wp", c.wp)
	return nil
}

func (c *Cache) populate(ctx context.Context, doc *goquery.Document) error {
	// free accounts get a notice instead of the record
	if doc.Find("p.PMOWarning").Length() > 0 {
		return fmt.Errorf("%s: %w", c.describe(), ErrRestricted)
	}

	details := doc.Find("#cacheDetails")
	if details.Length() == 0 {
		return LoadError{Msg: "page has no cache details block"}
	}
	widgets := doc.Find("div.CacheDetailNavigationWidget")
	attributesWidget := widgets.Eq(0)
	inventoryWidget := widgets.Eq(1)

	titleFields := strings.Fields(doc.Find("title").Text())
	if len(titleFields) == 0 {
		return LoadError{Msg: "page has no title to read the waypoint from"}
	}
	if err := c.SetWaypoint(titleFields[0]); err != nil {
		return err
	}

	c.SetName(details.Find("h2").First().Text())

	cacheType, err := TypeFromFilename(iconStem(details.Find("img").First().AttrOr("src", "")))
	if err != nil {
		return err
	}
	if err := c.SetType(cacheType); err != nil {
		return err
	}

	c.SetAuthor(details.Find("a").Eq(1).Text())

	hiddenText := details.Find("div.minorCacheDetails div").Eq(1).Text()
	colon := strings.LastIndex(hiddenText, ":")
	if err := c.SetHiddenText(hiddenText[colon+1:]); err != nil {
		return err
	}

	if err := c.SetLocationText(doc.Find("#uxLatLon").Text()); err != nil {
		return err
	}

	// a warning list is only rendered for disabled caches
	c.SetState(doc.Find("ul.OldWarning").Length() == 0)

	// TODO: inspect the status block text for "Found It!" / "Attended"
	// instead of treating any block as found; kept as-is until the
	// intended condition is confirmed
	c.SetFound(doc.Find("div.FoundStatus").Length() > 0)

	stars := doc.Find("div.CacheStarLabels img")
	difficulty, err := parseRating(stars.Eq(0).AttrOr("alt", ""))
	if err != nil {
		return err
	}
	if err := c.SetDifficulty(difficulty); err != nil {
		return err
	}
	terrain, err := parseRating(stars.Eq(1).AttrOr("alt", ""))
	if err != nil {
		return err
	}
	if err := c.SetTerrain(terrain); err != nil {
		return err
	}

	size, err := SizeFromFilename(iconStem(doc.Find("div.CacheSize img").AttrOr("src", "")))
	if err != nil {
		return err
	}
	if err := c.SetSize(size); err != nil {
		return err
	}

	attributes := map[string]bool{}
	attributesWidget.Find("img").Each(func(_ int, img *goquery.Selection) {
		stem := iconStem(img.AttrOr("src", ""))
		dash := strings.LastIndex(stem, "-")
		if dash < 0 {
			return
		}
		name, suffix := stem[:dash], stem[dash+1:]
		if strings.HasPrefix(suffix, "blank") {
			return
		}
		attributes[name] = strings.HasPrefix(suffix, "yes")
	})
	c.SetAttributes(ctx, attributes)

	userContent := doc.Find("div.UserSuppliedContent")
	c.SetSummary(userContent.Eq(0).Text())
	descriptionHtml, err := goquery.OuterHtml(userContent.Eq(1))
	if err != nil {
		return err
	}
	c.SetDescription(descriptionHtml)

	c.SetHint(textutil.Rot13(strings.TrimSpace(doc.Find("#div_hint").Text())))

	favorites := 0
	favoritesText := strings.TrimSpace(doc.Find("span.favorite-value").Text())
	if favoritesText != "" {
		favorites, err = strconv.Atoi(favoritesText)
		if err != nil {
			return invalidf("favorites", "%s", err)
		}
	}
	if err := c.SetFavorites(favorites); err != nil {
		return err
	}

	token := ""
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		groups := userTokenRegex.FindStringSubmatch(script.Text())
		if len(groups) > 1 {
			token = groups[1]
			return false
		}
		return true
	})
	if token == "" {
		return LoadError{Msg: "could not find the logbook token"}
	}
	c.SetLogbookToken(token)

	// fewer than three anchors in the inventory widget means there is
	// no "view all trackables" link, i.e. the cache holds none; store
	// an explicit empty value so the lazy protocol does not refetch
	if inventoryWidget.Find("a").Length() >= 3 {
		href := inventoryWidget.
			Find("#ctl00_ContentBody_uxTravelBugList_uxViewAllTrackableItems").
			AttrOr("href", "")
		c.SetTrackablePageURL(strings.TrimPrefix(href, "../"))
	} else {
		c.SetTrackablePageURL("")
	}

	c.SetLogPageURL(doc.Find("#ctl00_ContentBody_GeoNav_logButton").AttrOr("href", ""))

	return nil
}

// parseRating reads the leading number out of a star image alt text
// like "3.5 out of 5".
func parseRating(alt string) (float64, error) {
	fields := strings.Fields(alt)
	if len(fields) == 0 {
		return 0, invalidf("rating", "empty star label")
	}
	rating, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, invalidf("rating", "%s", err)
	}
	return rating, nil
}

// LoadQuick populates the attributes available from the map tile
// service. It is much faster than Load but leaves the text-heavy
// fields (summary, description, hint) and the child-operation tokens
// unset; reading those later still triggers the full load. This is
// also the only loader that learns pm_only.
func (c *Cache) LoadQuick(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "cache:LoadQuick")
	defer span.End()

	if c.wp == "" {
		return LoadError{Msg: "cache lacks a waypoint for quick loading"}
	}

	res, err := c.session.JSON(ctx, c.session.TilesUrl+"/map.details", url.Values{"i": {c.wp}})
	if err != nil {
		return LoadError{Msg: "failed to fetch map details", Err: err}
	}

	data := res.Get("data").Array()
	if res.Get("status").String() == "failed" || len(data) != 1 {
		msg := res.Get("msg").String()
		if msg == "" {
			msg = "unknown error (probably a nonexistent cache)"
		}
		return LoadError{Msg: "waypoint " + c.wp + " cannot be loaded: " + msg}
	}
	record := data[0]

	c.SetName(record.Get("name").String())

	cacheType, err := TypeFromLabel(record.Get("type.text").String())
	if err != nil {
		return err
	}
	if err := c.SetType(cacheType); err != nil {
		return err
	}

	c.SetState(record.Get("available").Bool())

	size, err := SizeFromLabel(record.Get("container.text").String())
	if err != nil {
		return err
	}
	if err := c.SetSize(size); err != nil {
		return err
	}

	if err := c.SetDifficulty(record.Get("difficulty.text").Float()); err != nil {
		return err
	}
	if err := c.SetTerrain(record.Get("terrain.text").Float()); err != nil {
		return err
	}
	if err := c.SetHiddenText(record.Get("hidden").String()); err != nil {
		return err
	}

	c.SetAuthor(record.Get("owner.text").String())

	if err := c.SetFavorites(int(record.Get("fp").Int())); err != nil {
		return err
	}
	c.SetPMOnly(record.Get("subrOnly").Bool())

	slog.DebugContext(ctx, "cache loaded", "wp", c.wp, "quick", true)
	return nil
}

package geocaching

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"gocaching/lib/htmlutil"
)

// Trackable references one tracked item. Constructing it needs only
// its page url; further detail loads lazily through the same protocol
// caches use.
type Trackable struct {
	session *Session

	url string

	loaded bool

	name        field[string]
	owner       field[string]
	locationUrl field[string]
	description field[string]
}

// NewTrackable constructs a trackable reference from its page url.
func NewTrackable(session *Session, pageUrl string) *Trackable {
	return &Trackable{session: session, url: pageUrl}
}

func (t *Trackable) String() string { return t.describe() }

func (t *Trackable) URL() string { return t.url }

func (t *Trackable) describe() string {
	if name, ok := t.name.get(); ok && name != "" {
		return name
	}
	if t.url != "" {
		return t.url
	}
	return "(unidentified trackable)"
}

func (t *Trackable) loadedOnce() bool { return t.loaded }

func (t *Trackable) SetName(name string) {
	t.name.put(strings.TrimSpace(name))
}

func (t *Trackable) SetOwner(owner string) {
	t.owner.put(strings.TrimSpace(owner))
}

func (t *Trackable) SetLocationURL(locationUrl string) {
	t.locationUrl.put(locationUrl)
}

func (t *Trackable) SetDescription(description string) {
	t.description.put(strings.TrimSpace(description))
}

func (t *Trackable) Name(ctx context.Context) (string, error) {
	return lazyGet(ctx, t, &t.name, "name")
}

func (t *Trackable) Owner(ctx context.Context) (string, error) {
	return lazyGet(ctx, t, &t.owner, "owner")
}

// LocationURL is the detail page url of the cache the trackable sits
// in, or empty when it is not currently placed.
func (t *Trackable) LocationURL(ctx context.Context) (string, error) {
	return lazyGet(ctx, t, &t.locationUrl, "location url")
}

func (t *Trackable) Description(ctx context.Context) (string, error) {
	return lazyGet(ctx, t, &t.description, "description")
}

// Load populates the trackable's detail from its page.
func (t *Trackable) Load(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "trackable:Load")
	defer span.End()

	if t.url == "" {
		return LoadError{Msg: "trackable lacks a page url for loading"}
	}
	doc, err := t.session.Document(ctx, t.url, nil)
	if err != nil {
		return LoadError{Msg: "failed to fetch the trackable page", Err: err}
	}

	t.SetName(doc.Find("#ctl00_ContentBody_lbHeading").Text())
	t.SetOwner(doc.Find("#ctl00_ContentBody_BugDetails_BugOwner").Text())
	t.SetDescription(doc.Find("#TrackableDetails div.UserSuppliedContent").Text())

	// absent anchor means the trackable is travelling; store an
	// explicit empty value so the lazy protocol does not refetch
	location := doc.Find("#ctl00_ContentBody_BugDetails_BugLocation")
	t.SetLocationURL(location.AttrOr("href", ""))

	t.loaded = true
	slog.DebugContext(ctx, "trackable loaded", "name", t.describe())
	return nil
}

// Trackables returns a lazy, one-shot sequence of the trackables
// sitting in the cache, bounded by limit (limit <= 0 means unbounded).
// When the cache is known to hold none, the sequence is empty and no
// fetch happens. Only the first listing page is read.
//
// TODO: follow further pages of a longer listing the way the logbook
// pager does.
func (c *Cache) Trackables(ctx context.Context, limit int) iter.Seq2[*Trackable, error] {
	return func(yield func(*Trackable, error) bool) {
		// resolves the listing url lazily, which may cost one full load
		listingUrl, err := c.TrackablePageURL(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		if listingUrl == "" {
			// no link to the listing means no trackables in the cache
			return
		}

		doc, err := c.session.Document(ctx, listingUrl, nil)
		if err != nil {
			yield(nil, LoadError{Msg: "failed to fetch the trackable listing", Err: err})
			return
		}

		count := 0
		anchors := htmlutil.Anchors(doc.Find("table").Eq(1).Find("a"))
		for _, anchor := range anchors {
			if !strings.Contains(anchor.Href, "track") {
				continue
			}
			if limit > 0 && count >= limit {
				return
			}
			count++

			t := NewTrackable(c.session, anchor.Href)
			t.SetName(anchor.Name)
			if !yield(t, nil) {
				return
			}
		}
	}
}

// LoadTrackables is Trackables with the accumulation side effect,
// mirroring LoadLogbook.
func (c *Cache) LoadTrackables(ctx context.Context, limit int) iter.Seq2[*Trackable, error] {
	slog.InfoContext(ctx, "loading trackables", "cache", c.describe())
	c.trackables = nil

	inner := c.Trackables(ctx, limit)
	return func(yield func(*Trackable, error) bool) {
		inner(func(t *Trackable, err error) bool {
			if err == nil {
				c.trackables = append(c.trackables, t)
			}
			return yield(t, err)
		})
	}
}

package geocaching

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gocaching/lib/geo"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSetWaypoint(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())

	for _, wp := range []string{"GC1J3CV", "gc1j3cv", "  Gc1J3Cv\n"} {
		c, err := New(s, wp)
		require.NoError(t, err, wp)
		require.Equal(t, "GC1J3CV", c.Waypoint(), wp)
	}

	for _, wp := range []string{"", "1J3CV", "WM1234", "XGC1234"} {
		_, err := New(s, wp)
		require.Error(t, err, wp)
		require.IsType(t, ValidationError{}, err, wp)
	}
}

func TestSetWaypointImmutable(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)
	require.NoError(t, c.SetWaypoint("gc1j3cv"))
	require.Error(t, c.SetWaypoint("GCOTHER"))
	require.Equal(t, "GC1J3CV", c.Waypoint())
}

func TestSetRatings(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())
	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	for _, rating := range []float64{1, 1.5, 2, 3.5, 5} {
		require.NoError(t, c.SetDifficulty(rating), rating)
		require.NoError(t, c.SetTerrain(rating), rating)

		got, err := c.Difficulty(context.Background())
		require.NoError(t, err)
		require.Equal(t, rating, got)
	}

	for _, rating := range []float64{0, 0.5, 5.5, 6, 3.25, 4.1, -1} {
		require.Error(t, c.SetDifficulty(rating), rating)
		require.Error(t, c.SetTerrain(rating), rating)
	}
}

func TestSetFavorites(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())
	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	require.NoError(t, c.SetFavorites(0))
	require.NoError(t, c.SetFavorites(42))
	require.Error(t, c.SetFavorites(-1))
}

func TestSetAttributesDropsUnknownKeys(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())
	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	ctx := context.Background()
	c.SetAttributes(ctx, map[string]bool{
		"  Dogs ":      true,
		"kids":         false,
		"made_up_key":  true,
		"another_fake": false,
	})

	got, err := c.Attributes(ctx)
	require.NoError(t, err)

	diff := cmp.Diff(map[string]bool{"dogs": true, "kids": false}, got)
	require.Empty(t, diff)
}

func TestSetLocationText(t *testing.T) {
	s := newTestSession(t, http.NewServeMux())
	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	require.NoError(t, c.SetLocationText("N 49° 45.123 E 013° 22.123"))
	p, err := c.Location(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 49.75205, p.Lat, 1e-4)

	require.Error(t, c.SetLocationText("somewhere in the woods"))
}

func TestEqual(t *testing.T) {
	s1 := newTestSession(t, http.NewServeMux())
	s2 := newTestSession(t, http.NewServeMux())

	a, err := New(s1, "GC1J3CV")
	require.NoError(t, err)
	b, err := New(s1, "gc1j3cv")
	require.NoError(t, err)
	c, err := New(s2, "GC1J3CV")
	require.NoError(t, err)
	d, err := New(s1, "GCOTHER")
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c)) // different session
	require.False(t, a.Equal(d)) // different waypoint
}

func TestLazyLoadExactlyOnce(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{withTrackables: true}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)
	ctx := context.Background()

	name, err := c.Name(ctx)
	require.NoError(t, err)
	require.Equal(t, "Fishing Hole", name)
	require.Equal(t, 1, fetches)

	// further reads of other attributes are served from the one load
	hint, err := c.Hint(ctx)
	require.NoError(t, err)
	require.Equal(t, "Under the bridge", hint)

	author, err := c.Author(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", author)

	token, err := c.LogbookToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "TOKEN123", token)

	require.Equal(t, 1, fetches)
}

func TestLoadPopulatesEverything(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{found: true, withTrackables: true}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	cacheType, err := c.Type(ctx)
	require.NoError(t, err)
	require.Equal(t, TypeTraditional, cacheType)

	size, err := c.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, SizeSmall, size)

	difficulty, err := c.Difficulty(ctx)
	require.NoError(t, err)
	require.Equal(t, 3.5, difficulty)

	terrain, err := c.Terrain(ctx)
	require.NoError(t, err)
	require.Equal(t, 4.0, terrain)

	hidden, err := c.Hidden(ctx)
	require.NoError(t, err)
	require.Equal(t, time.Date(2009, 6, 17, 0, 0, 0, 0, time.UTC), hidden)

	location, err := c.Location(ctx)
	require.NoError(t, err)
	expected, err := geo.Parse("N 49° 45.123 E 013° 22.123")
	require.NoError(t, err)
	require.InDelta(t, expected.Lat, location.Lat, 1e-9)
	require.InDelta(t, expected.Lon, location.Lon, 1e-9)

	state, err := c.State(ctx)
	require.NoError(t, err)
	require.True(t, state)

	found, err := c.Found(ctx)
	require.NoError(t, err)
	require.True(t, found)

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "A short summary.", summary)

	description, err := c.Description(ctx)
	require.NoError(t, err)
	require.Contains(t, description, "Bring your own pen.")

	favorites, err := c.Favorites(ctx)
	require.NoError(t, err)
	require.Equal(t, 42, favorites)

	attributes, err := c.Attributes(ctx)
	require.NoError(t, err)
	diff := cmp.Diff(map[string]bool{"dogs": true, "kids": false}, attributes)
	require.Empty(t, diff)

	trackableUrl, err := c.TrackablePageURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "track/search.aspx?wp=GC1J3CV", trackableUrl)

	logPageUrl, err := c.LogPageURL(ctx)
	require.NoError(t, err)
	require.Equal(t, "/play/geocache/gc1j3cv/log", logPageUrl)

	require.Equal(t, 1, fetches)
}

func TestLoadDisabledCache(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{disabled: true}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	state, err := c.State(context.Background())
	require.NoError(t, err)
	require.False(t, state)

	found, err := c.Found(context.Background())
	require.NoError(t, err)
	require.False(t, found)
}

func TestLoadNoTrackablesStoresExplicitNone(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	url, err := c.TrackablePageURL(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", url)

	// the empty value is set, not unset: no refetch
	url, err = c.TrackablePageURL(context.Background())
	require.NoError(t, err)
	require.Equal(t, "", url)
	require.Equal(t, 1, fetches)
}

func TestLoadRestricted(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{premiumOnly: true}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	err = c.Load(context.Background())
	require.ErrorIs(t, err, ErrRestricted)
}

func TestLoadWithoutIdentifyingInfo(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{}, &fetches))

	c := NewFromURL(s, "")
	_, err := c.Name(context.Background())
	require.Error(t, err)
	require.IsType(t, LoadError{}, err)
	require.Equal(t, 0, fetches)
}

func TestLoadTransportFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/seek/cache_details.aspx", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusInternalServerError)
	})
	s := newTestSession(t, mux)

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	err = c.Load(context.Background())
	require.Error(t, err)
	var loadErr LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Error(t, loadErr.Err) // transport cause preserved
}

func TestPMOnlyNeverTriggersLoad(t *testing.T) {
	fetches := 0
	s := newTestSession(t, detailHandler(detailPageOptions{}, &fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)

	_, err = c.PMOnly()
	require.Error(t, err)
	require.Equal(t, 0, fetches)

	c.SetPMOnly(true)
	pmOnly, err := c.PMOnly()
	require.NoError(t, err)
	require.True(t, pmOnly)
	require.Equal(t, 0, fetches)
}

func quickLoadHandler(fetches *int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/map.details", func(w http.ResponseWriter, r *http.Request) {
		*fetches++
		if r.URL.Query().Get("i") != "GC1J3CV" {
			fmt.Fprint(w, `{"status": "failed", "msg": "no matches"}`)
			return
		}
		fmt.Fprint(w, `{
			"status": "success",
			"data": [{
				"name": "Fishing Hole",
				"type": {"text": "Traditional Cache"},
				"available": true,
				"container": {"text": "Small"},
				"difficulty": {"text": 3.5},
				"terrain": {"text": 4},
				"hidden": "6/17/2009",
				"owner": {"text": "alice"},
				"fp": "42",
				"subrOnly": false
			}]
		}`)
	})
	return mux
}

func TestLoadQuick(t *testing.T) {
	fetches := 0
	s := newTestSession(t, quickLoadHandler(&fetches))

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.LoadQuick(ctx))
	require.Equal(t, 1, fetches)

	name, err := c.Name(ctx)
	require.NoError(t, err)
	require.Equal(t, "Fishing Hole", name)

	cacheType, err := c.Type(ctx)
	require.NoError(t, err)
	require.Equal(t, TypeTraditional, cacheType)

	size, err := c.Size(ctx)
	require.NoError(t, err)
	require.Equal(t, SizeSmall, size)

	pmOnly, err := c.PMOnly()
	require.NoError(t, err)
	require.False(t, pmOnly)

	favorites, err := c.Favorites(ctx)
	require.NoError(t, err)
	require.Equal(t, 42, favorites)
}

func TestLoadQuickFailure(t *testing.T) {
	fetches := 0
	s := newTestSession(t, quickLoadHandler(&fetches))

	c, err := New(s, "GCNOPE")
	require.NoError(t, err)

	err = c.LoadQuick(context.Background())
	require.Error(t, err)
	require.IsType(t, LoadError{}, err)
	require.Contains(t, err.Error(), "no matches")
}

func TestLoadQuickLeavesTextFieldsLazy(t *testing.T) {
	quickFetches := 0
	detailFetches := 0
	mux := http.NewServeMux()
	mux.Handle("/map.details", quickLoadHandler(&quickFetches))
	mux.HandleFunc("/seek/cache_details.aspx", func(w http.ResponseWriter, r *http.Request) {
		detailFetches++
		fmt.Fprint(w, detailPage(detailPageOptions{}))
	})
	s := newTestSession(t, mux)

	c, err := New(s, "GC1J3CV")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.LoadQuick(ctx))
	require.Equal(t, 0, detailFetches)

	// summary is not served by the tile service: reading it falls back
	// to the full load
	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "A short summary.", summary)
	require.Equal(t, 1, detailFetches)
}

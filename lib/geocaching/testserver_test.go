package geocaching

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gocaching/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, handler http.Handler) *Session {
	cleanup := telemetry.SetupForTesting(t, "test:lib/geocaching")
	t.Cleanup(cleanup)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSession(context.Background(), SessionOptions{
		BaseUrl:  srv.URL,
		TilesUrl: srv.URL,
	})
	require.NoError(t, err)
	return s
}

type detailPageOptions struct {
	disabled       bool
	found          bool
	premiumOnly    bool
	withTrackables bool
}

// detailPage renders a cache detail page the way the production site
// structures it, with just enough of the markup the loader reads.
func detailPage(opts detailPageOptions) string {
	if opts.premiumOnly {
		return `<html><body><p class="PMOWarning">Premium Members only.</p></body></html>`
	}

	warning := ""
	if opts.disabled {
		warning = `<ul class="OldWarning"><li>This cache is temporarily unavailable.</li></ul>`
	}
	foundStatus := ""
	if opts.found {
		foundStatus = `<div class="FoundStatus">Found It!</div>`
	}
	inventory := `<a href="/about/inventory">What is this?</a>`
	if opts.withTrackables {
		inventory = `
			<a href="/track/travelbug.aspx?id=1">Smoked Trout</a>
			<a href="/track/travelbug.aspx?id=2">Rubber Duck</a>
			<a id="ctl00_ContentBody_uxTravelBugList_uxViewAllTrackableItems"
				href="../track/search.aspx?wp=GC1J3CV">View all trackables</a>`
	}

	return fmt.Sprintf(`<html>
<head>
<title>GC1J3CV Fishing Hole (Traditional Cache) in Plzeň</title>
<script type="text/javascript">
//<![CDATA[
var userToken = 'TOKEN123';
//]]>
</script>
</head>
<body>
<div id="cacheDetails">
	<h2>Fishing Hole</h2>
	<img src="/images/WptTypes/2.gif"/>
	<a href="/map">map</a>
	<a href="/profile/alice">alice</a>
	<div class="minorCacheDetails">
		<div>A cache by alice</div>
		<div>Hidden : 06/17/2009</div>
	</div>
</div>
<div class="CacheDetailNavigationWidget">
	<img src="/images/attributes/dogs-yes.gif"/>
	<img src="/images/attributes/kids-no.gif"/>
	<img src="/images/attributes/bicycles-blank.gif"/>
</div>
<div class="CacheDetailNavigationWidget">%s</div>
<div class="CacheDetailNavigationWidget"></div>
%s
%s
<span id="uxLatLon">N 49° 45.123 E 013° 22.123</span>
<div class="CacheStarLabels">
	<img alt="3.5 out of 5"/>
	<img alt="4 out of 5"/>
</div>
<div class="CacheSize"><img src="/images/icons/container/small.gif"/></div>
<div class="UserSuppliedContent">A short summary.</div>
<div class="UserSuppliedContent"><p>Bring your own pen.</p></div>
<div id="div_hint">Haqre gur oevqtr</div>
<span class="favorite-value">42</span>
<a id="ctl00_ContentBody_GeoNav_logButton" href="/play/geocache/gc1j3cv/log">Log geocache</a>
</body>
</html>`, inventory, warning, foundStatus)
}

// detailHandler serves the detail page and counts how many times it
// was fetched.
func detailHandler(opts detailPageOptions, fetches *int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/seek/cache_details.aspx", func(w http.ResponseWriter, r *http.Request) {
		*fetches++
		fmt.Fprint(w, detailPage(opts))
	})
	return mux
}

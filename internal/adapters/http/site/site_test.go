package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site handler", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		Convey("When requesting the root", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			Convey("Then the dashboard page should be served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "PAYRIS FUNOLYMPICS DASHBOARD")
				So(w.Body.String(), ShouldContainSubstring, "/api/dashboard")
			})
		})

		Convey("When requesting a missing asset", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", "/some-asset", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting to the root", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("POST", "/", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}

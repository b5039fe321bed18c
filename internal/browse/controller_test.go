package browse

import (
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/urielniazov/pokedex/internal/pokeapi"
	"github.com/urielniazov/pokedex/internal/query"
)

const quiet = 700 * time.Millisecond

type harness struct {
	t     *testing.T
	api   *fakeAPI
	store *memStore
	clock *clock.Mock
	c     *Controller
}

// start builds a Controller over a store holding raw and completes Init.
func start(t *testing.T, raw string) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		api:   &fakeAPI{types: []string{"Grass", "Fire", "Water"}},
		store: newMemStore(raw),
		clock: clock.NewMock(),
	}
	h.c = New(Options{Store: h.store, API: h.api, Clock: h.clock, QuietPeriod: quiet})
	t.Cleanup(h.c.Close)
	deliver(t, h.c, collect(t, h.c.Init()))
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	deliver(h.t, h.c, collect(h.t, cmd))
}

func (h *harness) lastList() pokeapi.ListQuery {
	h.t.Helper()
	calls := h.api.listCalls()
	if len(calls) == 0 {
		h.t.Fatalf("no list calls")
	}
	return calls[len(calls)-1]
}

func TestController_InitWithEmptyStoreFetchesDefaults(t *testing.T) {
	api := &fakeAPI{types: []string{"Grass", "Fire"}}
	store := newMemStore("")
	c := New(Options{Store: store, API: api, Clock: clock.NewMock()})
	t.Cleanup(c.Close)

	if c.View().Phase != PhaseInitializing {
		t.Fatalf("phase before Init = %v", c.View().Phase)
	}
	cmd := c.Init()
	view := c.View()
	if view.Phase != PhaseReady || !view.FullyLoading || view.PageLoading {
		t.Fatalf("view after Init = %+v, want ready and fully loading", view)
	}
	if c.Init() != nil {
		t.Fatalf("second Init returned a command")
	}

	deliver(t, c, collect(t, cmd))

	if diff := cmp.Diff(query.Default(), c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]pokeapi.ListQuery{defaultListQuery()}, api.listCalls()); diff != "" {
		t.Fatalf("list calls mismatch (-want +got):\n%s", diff)
	}
	if api.typeCalls != 1 {
		t.Fatalf("types loaded %d times, want 1", api.typeCalls)
	}
	view = c.View()
	if !view.HasPage || view.FullyLoading || view.PageLoading || view.Err != "" {
		t.Fatalf("view after load = %+v", view)
	}
	if len(view.Page.Items) != 10 || view.Page.TotalPages != 3 {
		t.Fatalf("page = %d items / %d pages, want 10 / 3", len(view.Page.Items), view.Page.TotalPages)
	}
	if diff := cmp.Diff([]string{"Grass", "Fire"}, view.Types); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]query.Params{{}}, store.writes); diff != "" {
		t.Fatalf("store writes mismatch (-want +got):\n%s", diff)
	}
}

func TestController_InitNormalizesPersistedState(t *testing.T) {
	h := start(t, "page=abc&pageSize=-4&sortBy=bogus&sortOrder=DESC&type=Fire&search=char")

	want := query.State{
		Page:       1,
		PageSize:   10,
		SortField:  query.SortNumber,
		SortOrder:  query.Desc,
		TypeFilter: "Fire",
		SearchText: "char",
	}
	if diff := cmp.Diff(want, h.c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if h.c.View().Searching {
		t.Fatalf("loaded search is pending, want committed without delay")
	}
	got := h.lastList()
	if got.Search != "char" || got.Type != "Fire" || got.SortOrder != "desc" {
		t.Fatalf("first fetch = %#v", got)
	}
	wantParams := query.Params{"sortOrder": "desc", "type": "Fire", "search": "char"}
	if diff := cmp.Diff(wantParams, h.store.params); diff != "" {
		t.Fatalf("persisted params mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SettersResetPage(t *testing.T) {
	cases := []struct {
		name string
		set  func(*Controller) tea.Cmd
	}{
		{"page size", func(c *Controller) tea.Cmd { return c.SetPageSize(20) }},
		{"same page size", func(c *Controller) tea.Cmd { return c.SetPageSize(5) }},
		{"sort field", func(c *Controller) tea.Cmd { return c.SetSortField(query.SortAttack) }},
		{"sort order", func(c *Controller) tea.Cmd { return c.SetSortOrder(query.Desc) }},
		{"sort", func(c *Controller) tea.Cmd { return c.SetSort(query.SortName, query.Desc) }},
		{"type filter", func(c *Controller) tea.Cmd { return c.SetTypeFilter("Fire") }},
		{"clear type filter", func(c *Controller) tea.Cmd { return c.SetTypeFilter("") }},
		{"clear filters", func(c *Controller) tea.Cmd { return c.ClearFilters() }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := start(t, "page=3&pageSize=5")
			if h.c.State().Page != 3 {
				t.Fatalf("initial page = %d, want 3", h.c.State().Page)
			}
			h.run(tc.set(h.c))
			if got := h.c.State().Page; got != 1 {
				t.Fatalf("page = %d, want 1", got)
			}
			if got := h.lastList().Page; got != 1 {
				t.Fatalf("fetched page = %d, want 1", got)
			}
		})
	}
}

func TestController_SetPageKeepsFilters(t *testing.T) {
	h := start(t, "type=Fire&sortBy=speed")
	h.run(h.c.SetPage(2))

	got := h.lastList()
	want := pokeapi.ListQuery{Page: 2, PageSize: 10, SortBy: "speed", SortOrder: "asc", Type: "Fire"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fetch mismatch (-want +got):\n%s", diff)
	}
	if h.store.params[query.KeyPage] != "2" {
		t.Fatalf("persisted page = %q, want 2", h.store.params[query.KeyPage])
	}
	if h.c.View().Page.PageNumber != 2 {
		t.Fatalf("held page number = %d, want 2", h.c.View().Page.PageNumber)
	}
}

func TestController_TypeFilterFromPageThree(t *testing.T) {
	h := start(t, "page=3")
	before := len(h.api.listCalls())

	h.run(h.c.SetTypeFilter("Fire"))

	calls := h.api.listCalls()
	if len(calls) != before+1 {
		t.Fatalf("list calls = %d, want %d", len(calls), before+1)
	}
	got := calls[len(calls)-1]
	if got.Type != "Fire" || got.Page != 1 {
		t.Fatalf("fetch = %#v, want type=Fire page=1", got)
	}
	if diff := cmp.Diff(query.Params{"type": "Fire"}, h.store.params); diff != "" {
		t.Fatalf("persisted params mismatch (-want +got):\n%s", diff)
	}
}

func TestController_UnchangedQueryDoesNotFetch(t *testing.T) {
	h := start(t, "")
	before := len(h.api.listCalls())
	writes := len(h.store.writes)

	if cmd := h.c.SetPage(1); cmd != nil {
		t.Fatalf("SetPage(current) returned a command")
	}
	if cmd := h.c.SetTypeFilter(""); cmd != nil {
		t.Fatalf("SetTypeFilter(current) on page 1 returned a command")
	}
	if len(h.api.listCalls()) != before {
		t.Fatalf("unexpected fetch")
	}
	if len(h.store.writes) != writes {
		t.Fatalf("unchanged state written to store")
	}
}

func TestController_SearchDebouncesToSingleFetch(t *testing.T) {
	h := start(t, "page=2")
	before := len(h.api.listCalls())

	first := h.c.SetSearchText("char")
	h.clock.Add(200 * time.Millisecond)
	second := h.c.SetSearchText("charm")

	if h.c.State().Page != 2 {
		t.Fatalf("keystroke changed page to %d", h.c.State().Page)
	}
	if !h.c.View().Searching {
		t.Fatalf("Searching = false while input is pending")
	}
	if h.store.params[query.KeySearch] != "charm" {
		t.Fatalf("raw search not persisted: %v", h.store.params)
	}
	if msg := await(t, first); msg != nil {
		t.Fatalf("cancelled timer emitted %#v", msg)
	}
	if len(h.api.listCalls()) != before {
		t.Fatalf("keystrokes triggered a fetch")
	}

	h.clock.Add(quiet)
	deliver(t, h.c, []tea.Msg{await(t, second)})

	calls := h.api.listCalls()
	if len(calls) != before+1 {
		t.Fatalf("list calls = %d, want %d", len(calls), before+1)
	}
	if got := calls[len(calls)-1]; got.Search != "charm" || got.Page != 1 {
		t.Fatalf("fetch = %#v, want search=charm page=1", got)
	}
	if h.c.State().Page != 1 {
		t.Fatalf("page after commit = %d, want 1", h.c.State().Page)
	}
	if h.c.View().Searching {
		t.Fatalf("Searching = true after commit")
	}
}

func TestController_SearchSettlingBackDoesNotFetch(t *testing.T) {
	h := start(t, "search=pika")
	before := len(h.api.listCalls())
	writes := len(h.store.writes)

	first := h.c.SetSearchText("pikac")
	if cmd := h.c.SetSearchText("pika"); cmd != nil {
		t.Fatalf("settling back started a timer")
	}
	if h.c.View().Searching {
		t.Fatalf("Searching = true after settling back")
	}
	if msg := await(t, first); msg != nil {
		t.Fatalf("cancelled timer emitted %#v", msg)
	}
	h.clock.Add(2 * quiet)
	if len(h.api.listCalls()) != before {
		t.Fatalf("settling back triggered a fetch")
	}
	if h.store.params[query.KeySearch] != "pika" {
		t.Fatalf("persisted search = %q, want pika", h.store.params[query.KeySearch])
	}
	if len(h.store.writes) != writes+2 {
		t.Fatalf("store writes = %d, want %d", len(h.store.writes), writes+2)
	}
}

func TestController_StaleResponseNeverApplied(t *testing.T) {
	for _, newestFirst := range []bool{true, false} {
		h := start(t, "")
		msgA := collect(t, h.c.SetTypeFilter("Fire"))
		msgB := collect(t, h.c.SetTypeFilter("Water"))
		if len(msgA) != 1 || len(msgB) != 1 {
			t.Fatalf("expected one message per fetch, got %d and %d", len(msgA), len(msgB))
		}

		if newestFirst {
			deliver(t, h.c, msgB)
			deliver(t, h.c, msgA)
		} else {
			deliver(t, h.c, msgA)
			if !h.c.View().PageLoading {
				t.Fatalf("PageLoading cleared by stale response")
			}
			deliver(t, h.c, msgB)
		}

		view := h.c.View()
		if view.PageLoading || view.FullyLoading {
			t.Fatalf("loading flags set after latest response: %+v", view)
		}
		for _, item := range view.Page.Items {
			if item.TypeOne != "Water" {
				t.Fatalf("newestFirst=%v: held page contains %q item", newestFirst, item.TypeOne)
			}
		}
	}
}

func TestController_LoadingPolicy(t *testing.T) {
	api := &fakeAPI{}
	c := New(Options{Store: newMemStore(""), API: api, Clock: clock.NewMock()})
	t.Cleanup(c.Close)

	initMsgs := collect(t, c.Init())
	if v := c.View(); !v.FullyLoading || v.PageLoading {
		t.Fatalf("first fetch: %+v, want fully loading", v)
	}
	deliver(t, c, initMsgs)

	cmd := c.SetPage(2)
	if v := c.View(); v.FullyLoading || !v.PageLoading || !v.HasPage {
		t.Fatalf("later fetch: %+v, want page loading with held page", v)
	}
	if got := c.View().Page.PageNumber; got != 1 {
		t.Fatalf("held page replaced before response: %d", got)
	}
	deliver(t, c, collect(t, cmd))
	if v := c.View(); v.PageLoading || v.Page.PageNumber != 2 {
		t.Fatalf("after response: %+v", v)
	}
}

func TestController_FetchFailureShowsMessageUntilSuccess(t *testing.T) {
	h := start(t, "")
	held := h.c.View().Page

	h.api.setListErr(errors.New("connection refused"))
	h.run(h.c.SetPage(2))

	view := h.c.View()
	if view.Err != LoadErrorMessage {
		t.Fatalf("Err = %q, want %q", view.Err, LoadErrorMessage)
	}
	if view.PageLoading || view.FullyLoading {
		t.Fatalf("loading flags left set after failure: %+v", view)
	}
	if diff := cmp.Diff(held, view.Page); diff != "" {
		t.Fatalf("held page changed after failure (-want +got):\n%s", diff)
	}

	cmd := h.c.Reload()
	if h.c.View().Err != LoadErrorMessage {
		t.Fatalf("error cleared before the retry succeeded")
	}
	h.api.setListErr(nil)
	deliver(t, h.c, collect(t, cmd))

	view = h.c.View()
	if view.Err != "" || view.Page.PageNumber != 2 {
		t.Fatalf("after retry: err=%q page=%d", view.Err, view.Page.PageNumber)
	}
}

func TestController_ReloadReissuesSameQuery(t *testing.T) {
	h := start(t, "type=Grass")
	before := h.api.listCalls()
	h.run(h.c.Reload())
	after := h.api.listCalls()
	if len(after) != len(before)+1 {
		t.Fatalf("list calls = %d, want %d", len(after), len(before)+1)
	}
	if diff := cmp.Diff(before[len(before)-1], after[len(after)-1]); diff != "" {
		t.Fatalf("reload changed the query (-want +got):\n%s", diff)
	}
}

func TestController_TypesFailureIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	api := &fakeAPI{typesErr: errors.New("boom")}
	c := New(Options{Store: newMemStore(""), API: api, Clock: clock.NewMock(), Logger: zap.New(core)})
	t.Cleanup(c.Close)

	deliver(t, c, collect(t, c.Init()))

	view := c.View()
	if len(view.Types) != 0 {
		t.Fatalf("Types = %v, want empty", view.Types)
	}
	if view.Err != "" || !view.HasPage {
		t.Fatalf("types failure leaked into the list: %+v", view)
	}
	if logs.FilterMessage("failed to load pokemon types").Len() != 1 {
		t.Fatalf("types failure not logged: %v", logs.All())
	}

	deliver(t, c, collect(t, c.SetTypeFilter("Fire")))
	if api.typeCalls != 1 {
		t.Fatalf("types loaded %d times, want 1", api.typeCalls)
	}
}

func TestController_CaptureTouchesOnlyPage(t *testing.T) {
	h := start(t, "page=2")
	before := h.c.View()
	lists := len(h.api.listCalls())
	writes := len(h.store.writes)
	key := before.Page.Items[3].Key()

	h.run(h.c.SetCaptured(key, true))

	after := h.c.View()
	want := before.Page.Clone()
	want.Items[3].Captured = true
	if diff := cmp.Diff(want, after.Page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	if before.Page.Items[3].Captured {
		t.Fatalf("previous snapshot mutated")
	}
	if after.Query != before.Query {
		t.Fatalf("query changed: %+v", after.Query)
	}
	if len(h.api.listCalls()) != lists || len(h.store.writes) != writes {
		t.Fatalf("capture triggered a fetch or a store write")
	}
}

func TestController_CaptureFailureLeavesPageIdentical(t *testing.T) {
	h := start(t, "")
	h.api.mutateErr = errors.New("503")
	before := h.c.View().Page

	h.run(h.c.SetCaptured(before.Items[0].Key(), true))

	if diff := cmp.Diff(before, h.c.View().Page); diff != "" {
		t.Fatalf("page changed after failed capture (-want +got):\n%s", diff)
	}
	if h.c.View().Err != "" {
		t.Fatalf("mutation failure surfaced as %q", h.c.View().Err)
	}
}

func TestController_ResponseAfterCloseIgnored(t *testing.T) {
	h := start(t, "")
	msgs := collect(t, h.c.SetTypeFilter("Fire"))
	capture := collect(t, h.c.SetCaptured(h.c.View().Page.Items[0].Key(), true))
	pending := h.c.SetSearchText("bulba")

	h.c.Close()
	before := h.c.View()

	deliver(t, h.c, msgs)
	deliver(t, h.c, capture)
	if msg := await(t, pending); msg != nil {
		t.Fatalf("debounce timer emitted after Close: %#v", msg)
	}

	if diff := cmp.Diff(before, h.c.View()); diff != "" {
		t.Fatalf("view changed after Close (-want +got):\n%s", diff)
	}
	if h.c.SetPage(4) != nil || h.c.Reload() != nil || h.c.Pull() != nil {
		t.Fatalf("operations after Close returned commands")
	}

	h.api.mu.Lock()
	defer h.api.mu.Unlock()
	for i, ctx := range h.api.listCtxs {
		if ctx.Err() == nil {
			t.Fatalf("request %d context still live after Close", i)
		}
	}
}

func TestController_PullAppliesExternalChangeWithoutEcho(t *testing.T) {
	h := start(t, "")
	writes := len(h.store.writes)
	before := len(h.api.listCalls())

	h.store.params = query.Params{"page": "3", "type": "Water", "search": "squirt"}
	h.run(h.c.Pull())

	want := query.State{
		Page:       3,
		PageSize:   10,
		SortField:  query.SortNumber,
		SortOrder:  query.Asc,
		TypeFilter: "Water",
		SearchText: "squirt",
	}
	if diff := cmp.Diff(want, h.c.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if h.c.View().Searching || h.c.Effective().SearchText != "squirt" {
		t.Fatalf("pulled search not committed immediately")
	}
	calls := h.api.listCalls()
	if len(calls) != before+1 {
		t.Fatalf("list calls = %d, want %d", len(calls), before+1)
	}
	if got := calls[len(calls)-1]; got.Page != 3 || got.Type != "Water" || got.Search != "squirt" {
		t.Fatalf("fetch = %#v", got)
	}
	if len(h.store.writes) != writes {
		t.Fatalf("pulled state echoed to the store")
	}

	if cmd := h.c.Pull(); cmd != nil {
		t.Fatalf("second Pull of the same content returned a command")
	}
	if cmd := h.c.SetPage(3); cmd != nil {
		t.Fatalf("SetPage to the pulled page returned a command")
	}
	if len(h.store.writes) != writes {
		t.Fatalf("store written after a no-op")
	}
}

func TestController_PullCancelsPendingSearch(t *testing.T) {
	h := start(t, "")
	pending := h.c.SetSearchText("eev")

	h.store.params = query.Params{"type": "Normal"}
	h.run(h.c.Pull())

	if h.c.View().Searching {
		t.Fatalf("pending search survived Pull")
	}
	if h.c.State().SearchText != "" {
		t.Fatalf("SearchText = %q, want empty", h.c.State().SearchText)
	}
	if msg := await(t, pending); msg != nil {
		t.Fatalf("cancelled timer emitted %#v", msg)
	}
}

func TestController_ClearFiltersCommitsImmediately(t *testing.T) {
	h := start(t, "type=Fire&search=char&page=2")
	h.run(h.c.ClearFilters())

	got := h.lastList()
	if got.Type != "" || got.Search != "" || got.Page != 1 {
		t.Fatalf("fetch = %#v, want no filters on page 1", got)
	}
	if len(h.store.params) != 0 {
		t.Fatalf("persisted params = %v, want empty", h.store.params)
	}
}

func TestController_InvalidSetterArgumentsIgnored(t *testing.T) {
	h := start(t, "page=2")
	if h.c.SetPageSize(0) != nil || h.c.SetSortField("bogus") != nil || h.c.SetSortOrder("sideways") != nil {
		t.Fatalf("invalid argument produced a command")
	}
	if h.c.State().Page != 2 {
		t.Fatalf("invalid argument reset page")
	}
	h.run(h.c.SetPage(-3))
	if h.c.State().Page != 1 {
		t.Fatalf("SetPage(-3) = %d, want 1", h.c.State().Page)
	}
}

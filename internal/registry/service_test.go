package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vsxregistry/internal/config"
	"vsxregistry/internal/event"
	marketplacemocks "vsxregistry/internal/marketplace/mocks"
	"vsxregistry/internal/models"
	"vsxregistry/internal/opener"
	openermocks "vsxregistry/internal/opener/mocks"
	hostmocks "vsxregistry/internal/pluginhost/mocks"
	"vsxregistry/internal/preferences"
	"vsxregistry/internal/registry"
)

const apiURL = "http://registry.test/api"

type fakeHost struct {
	mu      sync.Mutex
	plugins []models.Plugin
	changed *event.Signal
}

func newFakeHost(plugins ...models.Plugin) *fakeHost {
	return &fakeHost{plugins: plugins, changed: event.NewSignal()}
}

func (h *fakeHost) Plugins() []models.Plugin {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Plugin(nil), h.plugins...)
}

func (h *fakeHost) OnDidChangePlugins(fn func()) event.Unsubscribe {
	return h.changed.Subscribe(fn)
}

type fixture struct {
	api    *marketplacemocks.MockAPI
	server *hostmocks.MockServer
	opener *openermocks.MockOpener
	host   *fakeHost
	prefs  *preferences.ViperStore
	svc    *registry.Service

	mu     sync.Mutex
	errors []error
}

func newFixture(t *testing.T, guardStale bool, plugins ...models.Plugin) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	v := viper.New()
	config.SetDefaults(v)
	v.Set(config.KeyAPIURL, apiURL)

	f := &fixture{
		api:    marketplacemocks.NewMockAPI(ctrl),
		server: hostmocks.NewMockServer(ctrl),
		opener: openermocks.NewMockOpener(ctrl),
		host:   newFakeHost(plugins...),
		prefs:  preferences.NewViperStore(v),
	}

	svc, err := registry.NewService(registry.Config{
		API:         f.api,
		Host:        f.host,
		Server:      f.server,
		Preferences: f.prefs,
		Opener:      f.opener,
		GuardStale:  guardStale,
		ErrorHandler: func(_ string, err error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.errors = append(f.errors, err)
		},
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	f.svc = svc
	return f
}

func (f *fixture) handledErrors() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errors...)
}

func part(publisher, name string) models.ExtensionPart {
	return models.ExtensionPart{Publisher: publisher, Name: name, DownloadURL: "http://dl.test/" + name + ".vsix"}
}

func full(publisher, name string) *models.ExtensionFull {
	return &models.ExtensionFull{ExtensionPart: part(publisher, name)}
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := registry.NewService(registry.Config{})
	assert.EqualError(t, err, "registry API is required")
}

func TestService_CreateEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	tests := []struct {
		name     string
		segments []string
		queries  []registry.Query
		expected string
	}{
		{
			name:     "search without query",
			segments: []string{"-", "search"},
			expected: apiURL + "/-/search",
		},
		{
			name:     "query values are not encoded",
			segments: []string{"-", "search"},
			queries:  []registry.Query{{Key: "query", Value: "foo bar"}},
			expected: apiURL + "/-/search?query=foo bar",
		},
		{
			name:     "empty segments are skipped",
			segments: []string{"", "redhat", "", "java"},
			expected: apiURL + "/redhat/java",
		},
		{
			name:     "leading empty segment adds no slash",
			segments: []string{"", "a"},
			expected: apiURL + "/a",
		},
		{
			name:     "only empty segments",
			segments: []string{"", ""},
			expected: apiURL,
		},
		{
			name:     "several queries with numbers",
			segments: []string{"-", "search"},
			queries:  []registry.Query{{Key: "query", Value: "a&b"}, {Key: "size", Value: 10}},
			expected: apiURL + "/-/search?query=a&b&size=10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.svc.CreateEndpoint(tt.segments, tt.queries...))
		})
	}
}

func TestService_FindReplacesResultAndFires(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()

	fired := 0
	f.svc.OnDidSearch(func() { fired++ })

	result := []models.ExtensionPart{part("redhat", "java")}
	f.api.EXPECT().GetExtensions(gomock.Any(), apiURL+"/-/search?query=java").Return(result, nil).Times(2)
	f.api.EXPECT().GetExtensions(gomock.Any(), apiURL+"/-/search").Return(nil, nil)

	require.NoError(t, f.svc.Find(ctx, &models.SearchParam{Query: "java"}))
	require.NoError(t, f.svc.Find(ctx, &models.SearchParam{Query: "java"}))
	assert.Equal(t, result, f.svc.SearchResult())
	assert.Equal(t, "java", f.svc.SearchParam().Query)
	assert.Equal(t, 2, fired, "fires even when nothing changed")

	require.NoError(t, f.svc.Find(ctx, &models.SearchParam{}))
	assert.Empty(t, f.svc.SearchResult())
	assert.Equal(t, 3, fired)
}

func TestService_FindErrorKeepsPreviousResult(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()

	fired := 0
	f.svc.OnDidSearch(func() { fired++ })

	result := []models.ExtensionPart{part("redhat", "java")}
	boom := errors.New("network down")
	gomock.InOrder(
		f.api.EXPECT().GetExtensions(gomock.Any(), gomock.Any()).Return(result, nil),
		f.api.EXPECT().GetExtensions(gomock.Any(), gomock.Any()).Return(nil, boom),
	)

	require.NoError(t, f.svc.Find(ctx, nil))
	assert.Nil(t, f.svc.SearchParam())
	assert.ErrorIs(t, f.svc.Find(ctx, &models.SearchParam{Query: "x"}), boom)

	assert.Equal(t, result, f.svc.SearchResult())
	assert.Equal(t, "x", f.svc.SearchParam().Query)
	assert.Equal(t, 1, fired)
}

// outOfOrderSearches issues a search for "first" and then "second", lets the
// second complete before the first, and returns the final result.
func outOfOrderSearches(t *testing.T, f *fixture) ([]models.ExtensionPart, int) {
	t.Helper()

	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	firstStarted := make(chan struct{})
	secondStarted := make(chan struct{})

	first := []models.ExtensionPart{part("a", "first")}
	second := []models.ExtensionPart{part("b", "second")}

	f.api.EXPECT().GetExtensions(gomock.Any(), apiURL+"/-/search?query=first").
		DoAndReturn(func(context.Context, string) ([]models.ExtensionPart, error) {
			close(firstStarted)
			<-releaseFirst
			return first, nil
		})
	f.api.EXPECT().GetExtensions(gomock.Any(), apiURL+"/-/search?query=second").
		DoAndReturn(func(context.Context, string) ([]models.ExtensionPart, error) {
			close(secondStarted)
			<-releaseSecond
			return second, nil
		})

	var mu sync.Mutex
	fired := 0
	f.svc.OnDidSearch(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.svc.Find(context.Background(), &models.SearchParam{Query: "first"}))
	}()
	<-firstStarted
	go func() {
		defer wg.Done()
		assert.NoError(t, f.svc.Find(context.Background(), &models.SearchParam{Query: "second"}))
	}()
	<-secondStarted

	close(releaseSecond)
	require.Eventually(t, func() bool {
		return len(f.svc.SearchResult()) == 1 && f.svc.SearchResult()[0].Name == "second"
	}, time.Second, 5*time.Millisecond)

	close(releaseFirst)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return f.svc.SearchResult(), fired
}

func TestService_FindLastToResolveWins(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	result, fired := outOfOrderSearches(t, f)

	require.Len(t, result, 1)
	assert.Equal(t, "first", result[0].Name, "the stale search completed last and overwrote the newer one")
	assert.Equal(t, 2, fired)
	assert.Equal(t, "second", f.svc.SearchParam().Query)
}

func TestService_FindGuardStaleKeepsNewest(t *testing.T) {
	t.Parallel()
	f := newFixture(t, true)

	result, fired := outOfOrderSearches(t, f)

	require.Len(t, result, 1)
	assert.Equal(t, "second", result[0].Name)
	assert.Equal(t, 1, fired)
}

func TestService_UpdateInstalledFiltersEngineType(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false,
		models.Plugin{Publisher: "redhat", Name: "java", EngineType: models.EngineTypeVSCode},
		models.Plugin{Publisher: "eclipse", Name: "tree", EngineType: models.EngineTypeTheia},
		models.Plugin{Publisher: "eclipse", Name: "other", EngineType: models.EngineTypeTheia},
		models.Plugin{Publisher: "ms", Name: "python", EngineType: models.EngineTypeVSCode},
		models.Plugin{Publisher: "none", Name: "untyped"},
	)

	fired := 0
	f.svc.OnDidChangeInstalled(func() { fired++ })

	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(full("redhat", "java"), nil)
	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/ms/python").Return(full("ms", "python"), nil)

	require.NoError(t, f.svc.UpdateInstalled(context.Background()))

	installed := f.svc.Installed()
	require.Len(t, installed, 2)
	urls := map[string]string{}
	for _, ext := range installed {
		urls[ext.Name] = ext.URL
	}
	assert.Equal(t, map[string]string{
		"java":   apiURL + "/redhat/java",
		"python": apiURL + "/ms/python",
	}, urls)
	assert.Equal(t, 1, fired)
}

func TestService_UpdateInstalledFailureLeavesSetUntouched(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false,
		models.Plugin{Publisher: "redhat", Name: "java", EngineType: models.EngineTypeVSCode},
		models.Plugin{Publisher: "ms", Name: "python", EngineType: models.EngineTypeVSCode},
	)

	fired := 0
	f.svc.OnDidChangeInstalled(func() { fired++ })

	boom := errors.New("404")
	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(full("redhat", "java"), nil)
	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/ms/python").Return(nil, boom)

	assert.ErrorIs(t, f.svc.UpdateInstalled(context.Background()), boom)
	assert.Empty(t, f.svc.Installed())
	assert.Zero(t, fired)
}

func TestService_InstallAndUninstall(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()

	ext := models.ExtensionPart{Publisher: "Foo", Name: "Bar", DownloadURL: "http://dl.test/bar.vsix"}
	f.server.EXPECT().Deploy(gomock.Any(), "http://dl.test/bar.vsix").Return(nil)
	f.server.EXPECT().Undeploy(gomock.Any(), "foo.bar").Return(nil)

	require.NoError(t, f.svc.Install(ctx, ext))
	require.NoError(t, f.svc.Uninstall(ctx, ext))
	assert.Empty(t, f.svc.Installed(), "install does not touch local state")
}

func TestService_PassThroughFetches(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()

	reviews := &models.ReviewList{Reviews: []models.Review{{Rating: 4}}}
	f.api.EXPECT().GetExtension(gomock.Any(), "u1").Return(full("a", "b"), nil).Times(2)
	f.api.EXPECT().GetExtensionReadMe(gomock.Any(), "u2").Return("# hi", nil)
	f.api.EXPECT().GetExtensionReviews(gomock.Any(), "u3").Return(reviews, nil)

	for i := 0; i < 2; i++ {
		detail, err := f.svc.GetExtensionDetail(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "b", detail.Name)
	}
	readme, err := f.svc.GetExtensionReadMe(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "# hi", readme)
	got, err := f.svc.GetExtensionReviews(ctx, "u3")
	require.NoError(t, err)
	assert.Same(t, reviews, got)
}

func TestService_OpenExtensionDetail(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	ext := part("redhat", "java")
	ext.URL = apiURL + "/redhat/java"
	f.opener.EXPECT().Open(gomock.Any(), "vsx-registry:java", opener.Options{Mode: "reveal", URL: ext.URL}).Return(nil)

	require.NoError(t, f.svc.OpenExtensionDetail(context.Background(), ext))
}

func TestService_CompileDocumentation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)
	ctx := context.Background()

	html, err := f.svc.CompileDocumentation(ctx, models.ExtensionFull{})
	require.NoError(t, err)
	assert.Equal(t, "", html, "no readme means no request")

	ext := models.ExtensionFull{ExtensionPart: models.ExtensionPart{ReadmeURL: "http://registry.test/readme"}}
	f.api.EXPECT().GetExtensionReadMe(gomock.Any(), "http://registry.test/readme").
		Return("# Title\n\n<script>steal()</script>\n\n<img src=\"https://img.test/a.png\">\n", nil)

	html, err = f.svc.CompileDocumentation(ctx, ext)
	require.NoError(t, err)
	assert.Contains(t, html, "<h2>Title</h2>")
	assert.Contains(t, html, `<img src="https://img.test/a.png"`)
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "steal")
}

func TestService_InitAndHostChanges(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, models.Plugin{Publisher: "redhat", Name: "java", EngineType: models.EngineTypeVSCode})

	var mu sync.Mutex
	searches, installs := 0, 0
	f.svc.OnDidSearch(func() { mu.Lock(); searches++; mu.Unlock() })
	f.svc.OnDidChangeInstalled(func() { mu.Lock(); installs++; mu.Unlock() })
	counts := func() (int, int) {
		mu.Lock()
		defer mu.Unlock()
		return searches, installs
	}

	f.api.EXPECT().GetExtensions(gomock.Any(), apiURL+"/-/search").Return([]models.ExtensionPart{part("a", "b")}, nil)
	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(full("redhat", "java"), nil)

	f.svc.Init(context.Background())
	f.svc.Wait()

	s, i := counts()
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, i)
	assert.Len(t, f.svc.SearchResult(), 1)
	assert.Len(t, f.svc.Installed(), 1)

	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(full("redhat", "java"), nil).Times(1)
	f.host.changed.Fire()
	f.svc.Wait()

	s, i = counts()
	assert.Equal(t, 1, s, "host changes only refresh the installed set")
	assert.Equal(t, 1+1, i)
	assert.Empty(t, f.handledErrors())
}

func TestService_APIURLPreferenceTriggersRefresh(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false, models.Plugin{Publisher: "redhat", Name: "java", EngineType: models.EngineTypeVSCode})

	f.api.EXPECT().GetExtensions(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(full("redhat", "java"), nil)
	f.svc.Init(context.Background())
	f.svc.Wait()

	f.api.EXPECT().GetExtension(gomock.Any(), "http://mirror.test/api/redhat/java").Return(full("redhat", "java"), nil)
	f.prefs.Set(config.KeyWebURL, "http://mirror.test")
	f.prefs.Set(config.KeyAPIURL, "http://mirror.test/api")
	f.svc.Wait()

	require.Len(t, f.svc.Installed(), 1)
	assert.Equal(t, "http://mirror.test/api/redhat/java", f.svc.Installed()[0].URL)
}

func TestService_BackgroundErrorsGoToHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	boom := errors.New("registry unreachable")
	f.api.EXPECT().GetExtensions(gomock.Any(), gomock.Any()).Return(nil, boom)

	f.svc.Init(context.Background())
	f.svc.Wait()

	assert.Equal(t, []error{boom}, f.handledErrors())
	assert.Empty(t, f.svc.SearchResult())
	assert.Empty(t, f.svc.Installed())
}

func TestService_CloseStopsListening(t *testing.T) {
	t.Parallel()
	f := newFixture(t, false)

	f.api.EXPECT().GetExtensions(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.svc.Init(context.Background())
	f.svc.Close()

	f.host.changed.Fire()
	f.svc.Wait()
	assert.Zero(t, f.host.changed.Len())
}

func TestService_UpdateInstalledReadsHostSnapshotOnce(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := viper.New()
	config.SetDefaults(v)
	v.Set(config.KeyAPIURL, apiURL)

	api := marketplacemocks.NewMockAPI(ctrl)
	host := hostmocks.NewMockHost(ctrl)
	svc, err := registry.NewService(registry.Config{
		API:         api,
		Host:        host,
		Server:      hostmocks.NewMockServer(ctrl),
		Preferences: preferences.NewViperStore(v),
	})
	require.NoError(t, err)

	host.EXPECT().Plugins().Return([]models.Plugin{
		{Publisher: "redhat", Name: "java", EngineType: models.EngineTypeVSCode},
	}).Times(1)
	api.EXPECT().GetExtension(gomock.Any(), apiURL+"/redhat/java").Return(nil, nil)

	require.NoError(t, svc.UpdateInstalled(context.Background()))
	assert.Empty(t, svc.Installed(), "unresolved extensions are left out")
}

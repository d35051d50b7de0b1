package theme

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	loadErr error
	saveErr error
	value   string
}

func (f *failingStorage) Load(context.Context) (string, error) { return f.value, f.loadErr }
func (f *failingStorage) Save(_ context.Context, v Setting) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.value = string(v)
	return nil
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Setting
		ok   bool
	}{
		{"dark", Dark, true},
		{" LIGHT ", Light, true},
		{"", "", false},
		{"sepia", "", false},
	}
	for _, tt := range cases {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q) ok", tt.in)
	}
}

func TestNewStoreRequiresStorage(t *testing.T) {
	t.Parallel()

	_, err := NewStore(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoStorage)
}

func TestNewStoreDefaultsToDark(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "purple"} {
		store, err := NewStore(context.Background(), NewMemoryStorage(raw))
		require.NoError(t, err)
		assert.Equal(t, Dark, store.Get(), "initial value %q", raw)
		assert.True(t, store.IsDark())
	}

	store, err := NewStore(context.Background(), &failingStorage{loadErr: errors.New("disk gone")})
	require.NoError(t, err)
	assert.Equal(t, Dark, store.Get())
}

func TestNewStoreReadsPersistedValue(t *testing.T) {
	t.Parallel()

	store, err := NewStore(context.Background(), NewMemoryStorage("light"))
	require.NoError(t, err)
	assert.Equal(t, Light, store.Get())
	assert.False(t, store.IsDark())
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := NewMemoryStorage("")
	store, err := NewStore(ctx, storage)
	require.NoError(t, err)

	original := store.Get()

	next, err := store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Light, next)
	persisted, _ := storage.Load(ctx)
	assert.Equal(t, string(store.Get()), persisted)

	next, err = store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, next)
	persisted, _ = storage.Load(ctx)
	assert.Equal(t, string(store.Get()), persisted)
	assert.Equal(t, 2, storage.Saves())
}

func TestTogglePersistsForLaterStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := NewMemoryStorage("")
	first, err := NewStore(ctx, storage)
	require.NoError(t, err)
	_, err = first.Toggle(ctx)
	require.NoError(t, err)

	second, err := NewStore(ctx, storage)
	require.NoError(t, err)
	assert.Equal(t, Light, second.Get())
}

func TestToggleNotifiesSubscribersBeforeReturning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(ctx, NewMemoryStorage("dark"))
	require.NoError(t, err)

	var seen []Setting
	cancel := store.Subscribe(func(s Setting) { seen = append(seen, s) })
	store.Subscribe(func(Setting) {
		// Observers may read the store without deadlocking.
		assert.Equal(t, Light, store.Get())
	})

	_, err = store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Setting{Light}, seen)

	cancel()
	cancel()
	_, err = store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Setting{Light}, seen)
}

func TestToggleKeepsValueWhenPersistenceFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := &failingStorage{value: "dark", saveErr: errors.New("quota exceeded")}
	store, err := NewStore(ctx, storage)
	require.NoError(t, err)

	notified := false
	store.Subscribe(func(Setting) { notified = true })

	got, err := store.Toggle(ctx)
	require.Error(t, err)
	assert.Equal(t, Dark, got)
	assert.Equal(t, Dark, store.Get())
	assert.Equal(t, "dark", storage.value)
	assert.False(t, notified)
}

func TestSetSelectsExplicitValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := NewMemoryStorage("")
	store, err := NewStore(ctx, storage)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, Dark))
	assert.Equal(t, 0, storage.Saves(), "setting the active value should not write")

	require.NoError(t, store.Set(ctx, Light))
	assert.Equal(t, Light, store.Get())
	assert.Error(t, store.Set(ctx, Setting("neon")))
}

func TestSessionStorageRoundTrip(t *testing.T) {
	t.Parallel()

	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)

	storage := SessionStorage{Sessions: sm}
	store, err := NewStore(ctx, storage)
	require.NoError(t, err)
	assert.Equal(t, Dark, store.Get())

	_, err = store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", sm.GetString(ctx, StorageKey))

	token, _, err := sm.Commit(ctx)
	require.NoError(t, err)

	reloaded, err := sm.Load(context.Background(), token)
	require.NoError(t, err)
	again, err := NewStore(reloaded, storage)
	require.NoError(t, err)
	assert.Equal(t, Light, again.Get())
}

func TestLayeredFallsBackAndMirrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := NewMemoryStorage("")
	durable := NewMemoryStorage("light")
	layered := Layered{session, nil, durable}

	store, err := NewStore(ctx, layered)
	require.NoError(t, err)
	assert.Equal(t, Light, store.Get())

	_, err = store.Toggle(ctx)
	require.NoError(t, err)
	s, _ := session.Load(ctx)
	d, _ := durable.Load(ctx)
	assert.Equal(t, "dark", s)
	assert.Equal(t, "dark", d)
}

func TestLayeredReportsOnlyPrimaryFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mirror := &failingStorage{saveErr: errors.New("db down")}
	assert.NoError(t, Layered{NewMemoryStorage(""), mirror}.Save(ctx, Light))

	primary := &failingStorage{saveErr: errors.New("session down")}
	assert.Error(t, Layered{primary, NewMemoryStorage("")}.Save(ctx, Light))
}

func TestCookieStorageSurvivesNewStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := httptest.NewRecorder()
	writer := CookieStorage{Request: httptest.NewRequest(http.MethodPost, "/", nil), Writer: rec, Secure: true}

	store, err := NewStore(ctx, writer)
	require.NoError(t, err)
	assert.Equal(t, Dark, store.Get())
	_, err = store.Toggle(ctx)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, StorageKey, cookies[0].Name)
	assert.Equal(t, "light", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, int(CookieMaxAge.Seconds()), cookies[0].MaxAge)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	reloaded, err := NewStore(ctx, CookieStorage{Request: next})
	require.NoError(t, err)
	assert.Equal(t, Light, reloaded.Get())
}

func TestCookieStorageWithoutWriterIsReadOnly(t *testing.T) {
	t.Parallel()

	storage := CookieStorage{Request: httptest.NewRequest(http.MethodGet, "/", nil)}
	raw, err := storage.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.Error(t, storage.Save(context.Background(), Light))
}

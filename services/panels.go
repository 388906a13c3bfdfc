package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursefront/apiclient"
	"coursefront/models"
)

// Panel is a staff CRUD screen over one admin resource. After a change the
// caller redirects back to the list, which is fetched again.
type Panel[T any] struct {
	Resource apiclient.Resource
}

func (p Panel[T]) List(ctx context.Context, api *apiclient.Client, filter apiclient.AdminFilter) ([]T, error) {
	return apiclient.AdminList[T](ctx, api, p.Resource, filter)
}

func (p Panel[T]) Get(ctx context.Context, api *apiclient.Client, id uint) (*T, error) {
	return apiclient.AdminGet[T](ctx, api, p.Resource, id)
}

func (p Panel[T]) Create(ctx context.Context, api *apiclient.Client, payload apiclient.Payload) (*T, error) {
	return apiclient.AdminCreate[T](ctx, api, p.Resource, payload)
}

func (p Panel[T]) Update(ctx context.Context, api *apiclient.Client, id uint, payload apiclient.Payload) (*T, error) {
	return apiclient.AdminUpdate[T](ctx, api, p.Resource, id, payload)
}

func (p Panel[T]) Delete(ctx context.Context, api *apiclient.Client, id uint) error {
	return api.AdminDelete(ctx, p.Resource, id)
}

type panelKey struct {
	session string
	course  uint
}

type videoEntry struct {
	videos  []models.Video
	touched time.Time
	// set by a local patch, consumed by the next list page
	patched bool
}

// PanelCache keeps the videos panel list per browser session and course
// filter. A create, update or delete patches the list in memory and the
// page shown right after it is served from there. Any other visit fetches.
type PanelCache struct {
	mu      sync.Mutex
	entries map[panelKey]*videoEntry
	now     func() time.Time
}

func NewPanelCache() *PanelCache {
	return &PanelCache{entries: map[panelKey]*videoEntry{}, now: time.Now}
}

// Purge drops entries untouched since cutoff and reports how many went.
func (c *PanelCache) Purge(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if e.touched.Before(cutoff) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Forget drops everything cached for one browser, e.g. on logout.
func (c *PanelCache) Forget(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.session == session {
			delete(c.entries, k)
		}
	}
}

// take returns the patched list for key and clears the patched mark on
// every list of the session, so only one page view follows a mutation.
func (c *PanelCache) take(key panelKey) ([]models.Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.patched {
		return nil, false
	}
	for k, other := range c.entries {
		if k.session == key.session {
			other.patched = false
		}
	}
	e.touched = c.now()
	return append([]models.Video(nil), e.videos...), true
}

func (c *PanelCache) put(key panelKey, videos []models.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &videoEntry{videos: append([]models.Video(nil), videos...), touched: c.now()}
}

// patch applies fn to every cached list of the session.
func (c *PanelCache) patch(session string, fn func(course uint, videos []models.Video) []models.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if k.session != session {
			continue
		}
		e.videos = fn(k.course, e.videos)
		e.touched = c.now()
		e.patched = true
	}
}

type VideoPanel struct {
	Panel[models.Video]
	cache *PanelCache
}

func NewVideoPanel(cache *PanelCache) *VideoPanel {
	return &VideoPanel{Panel: Panel[models.Video]{Resource: apiclient.ResourceVideos}, cache: cache}
}

// List fetches the full list, unless this session just changed it and the
// patched copy is still waiting to be shown.
func (p *VideoPanel) List(ctx context.Context, api *apiclient.Client, session string, course uint) ([]models.Video, error) {
	key := panelKey{session: session, course: course}
	if videos, ok := p.cache.take(key); ok {
		return videos, nil
	}
	videos, err := p.Panel.List(ctx, api, apiclient.AdminFilter{Course: course})
	if err != nil {
		return nil, err
	}
	sortVideos(videos)
	p.cache.put(key, videos)
	return videos, nil
}

func (p *VideoPanel) Create(ctx context.Context, api *apiclient.Client, session string, payload apiclient.Payload) (*models.Video, error) {
	video, err := p.Panel.Create(ctx, api, payload)
	if err != nil {
		return nil, err
	}
	created := *video
	p.cache.patch(session, func(course uint, videos []models.Video) []models.Video {
		if !inFilter(course, created) {
			return videos
		}
		videos = append(videos, created)
		sortVideos(videos)
		return videos
	})
	return video, nil
}

func (p *VideoPanel) Update(ctx context.Context, api *apiclient.Client, session string, id uint, payload apiclient.Payload) (*models.Video, error) {
	video, err := p.Panel.Update(ctx, api, id, payload)
	if err != nil {
		return nil, err
	}
	updated := *video
	p.cache.patch(session, func(course uint, videos []models.Video) []models.Video {
		videos = removeVideo(videos, id)
		if inFilter(course, updated) {
			videos = append(videos, updated)
			sortVideos(videos)
		}
		return videos
	})
	return video, nil
}

func (p *VideoPanel) Delete(ctx context.Context, api *apiclient.Client, session string, id uint) error {
	if err := p.Panel.Delete(ctx, api, id); err != nil {
		return err
	}
	p.cache.patch(session, func(_ uint, videos []models.Video) []models.Video {
		return removeVideo(videos, id)
	})
	return nil
}

func inFilter(course uint, v models.Video) bool {
	return course == 0 || uint(v.Course) == course
}

func removeVideo(videos []models.Video, id uint) []models.Video {
	out := videos[:0]
	for _, v := range videos {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

func sortVideos(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		if videos[i].Course != videos[j].Course {
			return videos[i].Course < videos[j].Course
		}
		if videos[i].Order != videos[j].Order {
			return videos[i].Order < videos[j].Order
		}
		return videos[i].ID < videos[j].ID
	})
}

// Package learning holds the presentation rules shared by the course,
// profile and admin pages. Nothing here talks to the network.
package learning

import (
	"sort"

	"coursefront/models"
)

// VideosPerModule is how many consecutive order values share a module
const VideosPerModule = 3

// Module is a display-only grouping of videos; the API has no such entity.
type Module struct {
	Index  int
	Videos []models.Video
}

// Number is the 1-based label shown to learners
func (m Module) Number() int {
	return m.Index + 1
}

// ModuleIndex maps order 1,2,3 to 0; 4,5,6 to 1 and so on.
// Orders below 1 land in the first module.
func ModuleIndex(order int) int {
	if order < 1 {
		return 0
	}
	return (order - 1) / VideosPerModule
}

// GroupIntoModules returns modules by ascending index, videos by ascending order.
func GroupIntoModules(videos []models.Video) []Module {
	sorted := make([]models.Video, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	var modules []Module
	for _, v := range sorted {
		idx := ModuleIndex(v.Order)
		if len(modules) == 0 || modules[len(modules)-1].Index != idx {
			modules = append(modules, Module{Index: idx})
		}
		last := &modules[len(modules)-1]
		last.Videos = append(last.Videos, v)
	}
	return modules
}

// SelectVideo resolves the player's selected video: the requested id if it
// exists, else the last watched one, else the first by order.
func SelectVideo(videos []models.Video, requested uint, lastWatched *uint) *models.Video {
	if len(videos) == 0 {
		return nil
	}
	find := func(id uint) *models.Video {
		for i := range videos {
			if videos[i].ID == id {
				return &videos[i]
			}
		}
		return nil
	}
	if requested != 0 {
		if v := find(requested); v != nil {
			return v
		}
	}
	if lastWatched != nil {
		if v := find(*lastWatched); v != nil {
			return v
		}
	}
	first := &videos[0]
	for i := range videos {
		if videos[i].Order < first.Order {
			first = &videos[i]
		}
	}
	return first
}

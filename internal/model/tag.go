package model

// MaxTagsPerPhoto caps how many tags a single photo may carry.
const MaxTagsPerPhoto = 5

// Tag mirrors the `tags` table. Tags are shared across photos through the
// photo_tags join table and are unique by name.
type Tag struct {
	ID   uint64 // tags.id
	Name string // tags.name
}

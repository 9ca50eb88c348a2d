package models

// AssetRef identifies one object held in the remote asset store. URL is what
// clients consume; StorageKey is what the store needs for deletion. Persisting
// the key next to the URL keeps deletion independent of the store's URL shape.
type AssetRef struct {
	URL        string `json:"url"`
	StorageKey string `json:"-"`
}

// IsZero reports whether the reference points at nothing.
func (a AssetRef) IsZero() bool {
	return a.URL == "" && a.StorageKey == ""
}

// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package film defines the video record and its wire/persistence form.
package film

// Video is a single film or song metadata entry. Field order matches the
// persisted JSON object order.
type Video struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
}

// Overwrite copies the mutable fields of src into v. The id is never touched.
func (v *Video) Overwrite(src Video) {
	v.Name = src.Name
	v.Author = src.Author
	v.Description = src.Description
	v.Genre = src.Genre
}

// Package seo models page metadata: the document head a crawler sees and the
// schema.org structured data attached to it.
package seo

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	AttrName     = "name"
	AttrProperty = "property"
)

// Tag is a <meta> element keyed by name or property.
type Tag struct {
	Attr    string
	Key     string
	Content string
}

// Meta is the metadata a page applies on entry.
type Meta struct {
	Title       string
	Description string
	Image       string
	URL         string

	// Type is the og:type, "website" when empty.
	Type string

	// StructuredData entries are rendered as JSON-LD scripts.
	StructuredData []map[string]any
}

// Head is the document head of one page.
type Head struct {
	Title     string
	Tags      []Tag
	Canonical string
	JSONLD    []string

	defaultImage string
}

// NewHead returns the site wide default head.
func NewHead(siteURL, defaultImage string) *Head {
	const (
		title       = "Clubin - Nightclub Guestlists & VIP Tables in India"
		description = "Discover nightclubs and parties near you. Book guestlists and VIP tables on Clubin."
	)

	return &Head{
		Title: title,
		Tags: []Tag{
			{AttrName, "description", description},
			{AttrProperty, "og:type", "website"},
			{AttrProperty, "og:title", title},
			{AttrProperty, "og:description", description},
			{AttrProperty, "og:url", siteURL + "/"},
			{AttrProperty, "og:image", defaultImage},
			{AttrProperty, "og:image:width", "1200"},
			{AttrProperty, "og:image:height", "630"},
			{AttrName, "twitter:card", "summary_large_image"},
			{AttrName, "twitter:title", title},
			{AttrName, "twitter:description", description},
			{AttrName, "twitter:url", siteURL + "/"},
			{AttrName, "twitter:image", defaultImage},
		},
		Canonical:    siteURL + "/",
		defaultImage: defaultImage,
	}
}

// Get returns the content of a meta tag.
func (h *Head) Get(attr, key string) (string, bool) {
	if i := h.index(attr, key); i != -1 {
		return h.Tags[i].Content, true
	}

	return "", false
}

// Set updates a meta tag, creating it when missing.
func (h *Head) Set(attr, key, content string) {
	if i := h.index(attr, key); i != -1 {
		h.Tags[i].Content = content

		return
	}

	h.Tags = append(h.Tags, Tag{Attr: attr, Key: key, Content: content})
}

// Remove deletes a meta tag if present.
func (h *Head) Remove(attr, key string) {
	if i := h.index(attr, key); i != -1 {
		h.Tags = slices.Delete(h.Tags, i, i+1)
	}
}

// Apply writes meta into the head and returns a function that puts the head
// back exactly as it was. On error the head is left untouched.
func (h *Head) Apply(meta Meta) (restore func(), err error) {
	scripts := make([]string, 0, len(meta.StructuredData))

	for _, sd := range meta.StructuredData {
		b, err := json.Marshal(sd)
		if err != nil {
			return nil, fmt.Errorf("encode structured data: %w", err)
		}

		scripts = append(scripts, string(b))
	}

	prev := h.snapshot()

	h.Title = meta.Title
	h.Set(AttrProperty, "og:title", meta.Title)
	h.Set(AttrName, "twitter:title", meta.Title)

	ogType := meta.Type
	if ogType == "" {
		ogType = "website"
	}

	h.Set(AttrProperty, "og:type", ogType)

	if meta.Description != "" {
		h.Set(AttrName, "description", meta.Description)
		h.Set(AttrProperty, "og:description", meta.Description)
		h.Set(AttrName, "twitter:description", meta.Description)
	}

	if meta.URL != "" {
		h.Canonical = meta.URL
		h.Set(AttrProperty, "og:url", meta.URL)
		h.Set(AttrName, "twitter:url", meta.URL)
	}

	if meta.Image != "" {
		h.Set(AttrProperty, "og:image", meta.Image)
		h.Set(AttrName, "twitter:image", meta.Image)

		// crawlers detect dimensions of custom images
		if meta.Image != h.defaultImage {
			h.Remove(AttrProperty, "og:image:width")
			h.Remove(AttrProperty, "og:image:height")
		}
	}

	h.JSONLD = append(h.JSONLD, scripts...)

	return func() { *h = prev }, nil
}

func (h *Head) index(attr, key string) int {
	return slices.IndexFunc(h.Tags, func(t Tag) bool {
		return t.Attr == attr && t.Key == key
	})
}

func (h *Head) snapshot() Head {
	cp := *h
	cp.Tags = slices.Clone(h.Tags)
	cp.JSONLD = slices.Clone(h.JSONLD)

	return cp
}

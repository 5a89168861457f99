package tilemap

import (
	"image"

	"github.com/mitchellh/mapstructure"
)

// SpawnProperty marks the object the player starts on.
const SpawnProperty = "spawn"

type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	Class      string     `json:"class,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation"`
	GID        uint32     `json:"gid,omitempty"`
	Visible    bool       `json:"visible"`
	Point      bool       `json:"point,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Kind returns the object class. Tiled 1.9 renamed type to class.
func (o *Object) Kind() string {
	if o.Class != "" {
		return o.Class
	}

	return o.Type
}

func (o *Object) Get(name string) (any, bool) {
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}

	return nil, false
}

func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// PropertyMap returns the properties keyed by name.
func (o *Object) PropertyMap() map[string]any {
	m := make(map[string]any, len(o.Properties))
	for _, p := range o.Properties {
		m[p.Name] = p.Value
	}

	return m
}

// Decode maps the object properties onto out, matching json tags.
func (o *Object) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(o.PropertyMap())
}

func (o *Object) Rect() image.Rectangle {
	return image.Rect(int(o.X), int(o.Y), int(o.X+o.Width), int(o.Y+o.Height))
}

func (o *Object) Center() (float64, float64) {
	return o.X + o.Width/2, o.Y + o.Height/2
}

// Spawn returns the first object carrying a spawn property. A spawn property
// explicitly set to false is skipped.
func (m *Map) Spawn() (*Object, bool) {
	for _, o := range m.Objects() {
		v, ok := o.Get(SpawnProperty)
		if !ok {
			continue
		}

		if b, isBool := v.(bool); isBool && !b {
			continue
		}

		return o, true
	}

	return nil, false
}

// ObjectsOfKind returns the objects whose class or type is kind.
func (m *Map) ObjectsOfKind(kind string) []*Object {
	var out []*Object
	for _, o := range m.Objects() {
		if o.Kind() == kind {
			out = append(out, o)
		}
	}

	return out
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON text columns. Each type marshals itself on write and accepts either
// TEXT (SQLite) or JSONB bytes (Postgres) on read.

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

type AssetLinks struct {
	Steam   string `json:"steam,omitempty" yaml:"steam,omitempty" validate:"omitempty,url"`
	Itch    string `json:"itch,omitempty" yaml:"itch,omitempty" validate:"omitempty,url"`
	Website string `json:"website,omitempty" yaml:"website,omitempty" validate:"omitempty,url"`
	Discord string `json:"discord,omitempty" yaml:"discord,omitempty" validate:"omitempty,url"`
}

func (l AssetLinks) Value() (driver.Value, error) { return jsonValue(l) }
func (l *AssetLinks) Scan(src any) error         { return scanJSON(src, l) }

type TeamMember struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Role   string `json:"role" yaml:"role" validate:"required"`
	Bio    string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}

type TeamMembers []TeamMember

func (m TeamMembers) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return jsonValue(m)
}

func (m *TeamMembers) Scan(src any) error {
	return scanJSON(src, m)
}

func (m TeamMembers) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TeamMember(m))
}

type SocialLinks struct {
	X         string `json:"x,omitempty" yaml:"x,omitempty" validate:"omitempty,url"`
	Facebook  string `json:"facebook,omitempty" yaml:"facebook,omitempty" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty" validate:"omitempty,url"`
	Itch      string `json:"itch,omitempty" yaml:"itch,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram,omitempty" validate:"omitempty,url"`
	YouTube   string `json:"youtube,omitempty" yaml:"youtube,omitempty" validate:"omitempty,url"`
	Twitch    string `json:"twitch,omitempty" yaml:"twitch,omitempty" validate:"omitempty,url"`
	Discord   string `json:"discord,omitempty" yaml:"discord,omitempty" validate:"omitempty,url"`
}

func (l SocialLinks) Value() (driver.Value, error) { return jsonValue(l) }
func (l *SocialLinks) Scan(src any) error         { return scanJSON(src, l) }

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
}

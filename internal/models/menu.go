package models

import "strings"

// LocalizedText maps a locale key (e.g. "zh", "en") to display text.
type LocalizedText map[string]string

// In returns the text for the given locale, falling back to "zh" and then
// to any available translation.
func (t LocalizedText) In(locale string) string {
	if s, ok := t[locale]; ok && s != "" {
		return s
	}
	if s, ok := t["zh"]; ok && s != "" {
		return s
	}
	for _, s := range t {
		if s != "" {
			return s
		}
	}
	return ""
}

// MenuItem represents a single dish on the menu. The ordering pipeline
// treats it as read-only input.
type MenuItem struct {
	ID          int           `json:"id" db:"id"`
	Name        LocalizedText `json:"name" db:"name"`
	Description LocalizedText `json:"description" db:"description"`
	Price       int           `json:"price" db:"price"`
	Category    string        `json:"category" db:"category"`
	Options     []string      `json:"options" db:"options"`
	Available   bool          `json:"available" db:"available"`
}

// CategoryOrder is the fixed display order of menu categories.
var CategoryOrder = []string{"limited", "main", "side", "drink", "dessert"}

// Selections maps a customization group key to the chosen value key,
// e.g. {"spice": "hot", "ice": "less"}.
type Selections map[string]string

// OptionValue is one selectable value inside a customization group.
type OptionValue struct {
	Key   string        `json:"key"`
	Label LocalizedText `json:"label"`
}

// OptionGroup is a declared customization group with its allowed values
// in display order. The first value is the default.
type OptionGroup struct {
	Key    string        `json:"key"`
	Name   LocalizedText `json:"name"`
	Values []OptionValue `json:"values"`
}

// optionCatalog declares every customization group the menu can reference.
var optionCatalog = []OptionGroup{
	{
		Key:  "spice",
		Name: LocalizedText{"zh": "辣度", "en": "Spice Level"},
		Values: []OptionValue{
			{Key: "none", Label: LocalizedText{"zh": "不辣", "en": "Not Spicy"}},
			{Key: "mild", Label: LocalizedText{"zh": "小辣", "en": "Mild"}},
			{Key: "medium", Label: LocalizedText{"zh": "中辣", "en": "Medium"}},
			{Key: "hot", Label: LocalizedText{"zh": "大辣", "en": "Hot"}},
		},
	},
	{
		Key:  "sugar",
		Name: LocalizedText{"zh": "甜度", "en": "Sugar Level"},
		Values: []OptionValue{
			{Key: "full", Label: LocalizedText{"zh": "正常糖", "en": "Normal"}},
			{Key: "less", Label: LocalizedText{"zh": "少糖", "en": "Less Sugar"}},
			{Key: "half", Label: LocalizedText{"zh": "半糖", "en": "Half Sugar"}},
			{Key: "quarter", Label: LocalizedText{"zh": "微糖", "en": "Quarter Sugar"}},
			{Key: "none", Label: LocalizedText{"zh": "無糖", "en": "Sugar-Free"}},
		},
	},
	{
		Key:  "ice",
		Name: LocalizedText{"zh": "冰塊", "en": "Ice Level"},
		Values: []OptionValue{
			{Key: "regular", Label: LocalizedText{"zh": "正常冰", "en": "Regular Ice"}},
			{Key: "less", Label: LocalizedText{"zh": "少冰", "en": "Less Ice"}},
			{Key: "none", Label: LocalizedText{"zh": "去冰", "en": "No Ice"}},
		},
	},
	{
		Key:  "size",
		Name: LocalizedText{"zh": "份量", "en": "Size"},
		Values: []OptionValue{
			{Key: "small", Label: LocalizedText{"zh": "小份", "en": "Small"}},
			{Key: "large", Label: LocalizedText{"zh": "大份", "en": "Large"}},
		},
	},
}

// OptionGroupByKey looks up a customization group by its key.
func OptionGroupByKey(key string) (OptionGroup, bool) {
	for _, group := range optionCatalog {
		if group.Key == key {
			return group, true
		}
	}
	return OptionGroup{}, false
}

// DefaultValue returns the first listed value key of the group.
func (g OptionGroup) DefaultValue() string {
	if len(g.Values) == 0 {
		return ""
	}
	return g.Values[0].Key
}

// HasValue reports whether the group declares the given value key.
func (g OptionGroup) HasValue(key string) bool {
	for _, value := range g.Values {
		if value.Key == key {
			return true
		}
	}
	return false
}

// RenderSelections formats chosen customizations as human-readable labels,
// in catalog group order, e.g. "大辣, 少冰".
func RenderSelections(selections Selections, locale string) string {
	if len(selections) == 0 {
		return ""
	}

	var parts []string
	for _, group := range optionCatalog {
		valueKey, ok := selections[group.Key]
		if !ok {
			continue
		}
		label := valueKey
		for _, value := range group.Values {
			if value.Key == valueKey {
				label = value.Label.In(locale)
				break
			}
		}
		parts = append(parts, label)
	}

	// Unknown groups still render by raw key so nothing is silently dropped.
	for groupKey, valueKey := range selections {
		if _, ok := OptionGroupByKey(groupKey); !ok {
			parts = append(parts, valueKey)
		}
	}

	return strings.Join(parts, ", ")
}

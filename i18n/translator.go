// Package i18n holds the fixed diagnostic messages recorded by coercion
// strategies. Placeholders such as {expected} are filled from the data map.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":    "expected {expected}, got {got}",
		"invalid_enum":    "{enum}: {got} is not one of [{valid}]",
		"enum_ambiguous":  "{enum}: ambiguous match between {first} and {second}",
		"required":        "missing required fields: {fields}",
		"unknown_key":     "unknown key {key}",
		"union_no_match":  "no union branch matched {got}",
		"no_value":        "no value could be coerced",
		"duplicate_key":   "key {key} duplicated",
		"too_deep":        "nesting deeper than {max}",
		"truncated":       "input truncated to {max} bytes",
		"unrepresentable": "cannot represent value of type {type}",
	},
	"ja": {
		"invalid_type":    "型が不正です: {expected} が必要ですが {got} でした",
		"invalid_enum":    "{enum}: {got} は [{valid}] のいずれでもありません",
		"enum_ambiguous":  "{enum}: {first} と {second} のどちらか判別できません",
		"required":        "必須プロパティが不足しています: {fields}",
		"unknown_key":     "未知のキーです: {key}",
		"union_no_match":  "いずれのユニオン分岐にも一致しません: {got}",
		"no_value":        "値を変換できませんでした",
		"duplicate_key":   "キーが重複しています: {key}",
		"too_deep":        "ネストが {max} を超えています",
		"truncated":       "{max} バイトに打ち切られました",
		"unrepresentable": "{type} 型の値は表現できません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Language is a widget display language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
)

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = LanguageEnglish

// Languages returns every supported language in menu order.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageArabic, LanguageFrench}
}

// ParseLanguage converts a language code such as "fr" or "FR" to a Language.
// An empty string yields DefaultLanguage.
func ParseLanguage(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultLanguage, nil
	}
	l := Language(code)
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q: must be one of en, ar, fr", code)
	}
	return l, nil
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageFrench:
		return true
	}
	return false
}

// String returns the language code.
func (l Language) String() string {
	return string(l)
}

// EnglishName returns the English name of the language, used in prompt
// instructions.
func (l Language) EnglishName() string {
	switch l {
	case LanguageArabic:
		return "Arabic"
	case LanguageFrench:
		return "French"
	default:
		return "English"
	}
}

// NativeName returns the language's name in itself, used in selectors.
func (l Language) NativeName() string {
	switch l {
	case LanguageArabic:
		return "العربية"
	case LanguageFrench:
		return "Français"
	default:
		return "English"
	}
}

// RightToLeft reports whether the language is written right to left.
func (l Language) RightToLeft() bool {
	return l == LanguageArabic
}

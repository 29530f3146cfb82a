// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package extract

import "github.com/abadojack/whatlanggo"

// DetectLanguage classifies extracted text into one of the supported
// language codes (en, ru, es). Anything else, or text too ambiguous to
// classify confidently, returns "".
func DetectLanguage(text string) string {
	if len(text) < MinTextLength {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	switch info.Lang {
	case whatlanggo.Eng:
		return "en"
	case whatlanggo.Rus:
		return "ru"
	case whatlanggo.Spa:
		return "es"
	}
	return ""
}

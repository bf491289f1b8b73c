// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package fingerprint

import (
	"github.com/tomtom215/visitormatch/internal/compare"
	"github.com/tomtom215/visitormatch/internal/models"
)

type evalFunc func(prev, next *models.Fingerprint, setThreshold float64) (float64, error)

// rule binds one attribute to its comparator. The constructors below name
// the attribute's semantic type: version (may only grow), flag and category
// (must be identical), revocable (may be lost but not gained) and set
// (comma-delimited, compared by Dice distance).
type rule struct {
	field string
	eval  evalFunc
}

func version(field string, get func(*models.Fingerprint) models.Version) rule {
	return rule{field: field, eval: func(prev, next *models.Fingerprint, _ float64) (float64, error) {
		ok, err := compare.LessThanOrEqual(string(get(prev)), string(get(next)))
		if err != nil {
			return 0, err
		}
		return compare.Bool(ok), nil
	}}
}

func flag(field string, get func(*models.Fingerprint) *bool) rule {
	return rule{field: field, eval: func(prev, next *models.Fingerprint, _ float64) (float64, error) {
		return compare.Bool(compare.ExactValue(get(prev), get(next))), nil
	}}
}

func category(field string, get func(*models.Fingerprint) string) rule {
	return rule{field: field, eval: func(prev, next *models.Fingerprint, _ float64) (float64, error) {
		return compare.Bool(compare.ExactMatch(get(prev), get(next))), nil
	}}
}

func revocable(field string, get func(*models.Fingerprint) *bool) rule {
	return rule{field: field, eval: func(prev, next *models.Fingerprint, _ float64) (float64, error) {
		return compare.Bool(compare.AsymmetricMatch(get(prev), get(next))), nil
	}}
}

func set(field string, get func(*models.Fingerprint) *string) rule {
	return rule{field: field, eval: func(prev, next *models.Fingerprint, threshold float64) (float64, error) {
		return compare.MatchSet(get(prev), get(next), threshold), nil
	}}
}

// schema lists every compared attribute in capture order.
var schema = []rule{
	version("browserVersion", func(f *models.Fingerprint) models.Version { return f.BrowserVersion }),
	version("browserMajorVersion", func(f *models.Fingerprint) models.Version { return f.BrowserMajorVersion }),
	flag("isIE", func(f *models.Fingerprint) *bool { return f.IsIE }),
	flag("isChrome", func(f *models.Fingerprint) *bool { return f.IsChrome }),
	flag("isFirefox", func(f *models.Fingerprint) *bool { return f.IsFirefox }),
	flag("isSafari", func(f *models.Fingerprint) *bool { return f.IsSafari }),
	flag("isOpera", func(f *models.Fingerprint) *bool { return f.IsOpera }),
	category("engine", func(f *models.Fingerprint) string { return f.Engine }),
	version("engineVersion", func(f *models.Fingerprint) models.Version { return f.EngineVersion }),
	version("osVersion", func(f *models.Fingerprint) models.Version { return f.OSVersion }),
	flag("isWindows", func(f *models.Fingerprint) *bool { return f.IsWindows }),
	flag("isMac", func(f *models.Fingerprint) *bool { return f.IsMac }),
	flag("isLinux", func(f *models.Fingerprint) *bool { return f.IsLinux }),
	flag("isUbuntu", func(f *models.Fingerprint) *bool { return f.IsUbuntu }),
	flag("isSolaris", func(f *models.Fingerprint) *bool { return f.IsSolaris }),
	flag("IsMobile", func(f *models.Fingerprint) *bool { return f.IsMobile }),
	flag("isMobileMajor", func(f *models.Fingerprint) *bool { return f.IsMobileMajor }),
	flag("isMobileAndroid", func(f *models.Fingerprint) *bool { return f.IsMobileAndroid }),
	flag("isMobileOpera", func(f *models.Fingerprint) *bool { return f.IsMobileOpera }),
	flag("isMobileWindows", func(f *models.Fingerprint) *bool { return f.IsMobileWindows }),
	flag("isMobileBlackBerry", func(f *models.Fingerprint) *bool { return f.IsMobileBlackBerry }),
	flag("isMobileIOS", func(f *models.Fingerprint) *bool { return f.IsMobileIOS }),
	flag("isIphone", func(f *models.Fingerprint) *bool { return f.IsIphone }),
	flag("isIpad", func(f *models.Fingerprint) *bool { return f.IsIpad }),
	flag("isIpod", func(f *models.Fingerprint) *bool { return f.IsIpod }),
	{field: "colorDepth", eval: func(prev, next *models.Fingerprint, _ float64) (float64, error) {
		return compare.Bool(compare.LessThanOrEqualValue(prev.ColorDepth, next.ColorDepth)), nil
	}},
	category("currentResolution", func(f *models.Fingerprint) string { return f.CurrentResolution }),
	set("plugins", func(f *models.Fingerprint) *string { return f.Plugins }),
	revocable("isJava", func(f *models.Fingerprint) *bool { return f.IsJava }),
	revocable("isFlash", func(f *models.Fingerprint) *bool { return f.IsFlash }),
	revocable("isSilverlight", func(f *models.Fingerprint) *bool { return f.IsSilverlight }),
	set("mimeTypes", func(f *models.Fingerprint) *string { return f.MimeTypes }),
	revocable("isMimeTypes", func(f *models.Fingerprint) *bool { return f.IsMimeTypes }),
	set("fonts", func(f *models.Fingerprint) *string { return f.Fonts }),
	revocable("isLocalStorage", func(f *models.Fingerprint) *bool { return f.IsLocalStorage }),
	revocable("isSessionStorage", func(f *models.Fingerprint) *bool { return f.IsSessionStorage }),
	revocable("isCookie", func(f *models.Fingerprint) *bool { return f.IsCookie }),
	category("timeZone", func(f *models.Fingerprint) string { return f.TimeZone }),
	category("language", func(f *models.Fingerprint) string { return f.Language }),
	category("systemLanguage", func(f *models.Fingerprint) string { return f.SystemLanguage }),
	revocable("isCanvas", func(f *models.Fingerprint) *bool { return f.IsCanvas }),
}

// Fields returns the compared attribute names in capture order.
func Fields() []string {
	out := make([]string, len(schema))
	for i, r := range schema {
		out[i] = r.field
	}
	return out
}

// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

import (
	"bytes"
	"strings"

	"github.com/goccy/go-json"
)

// Version is an ordinal value captured either as a JSON number ("120") or a
// dotted version string ("120.0.6099"). Both decode to the same textual form.
type Version string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return InvalidInputf("version: %v", err)
		}
		*v = Version(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return InvalidInputf("version must be a string or number: %v", err)
	}
	*v = Version(n.String())
	return nil
}

// Fingerprint is a browser/device fingerprint as captured by the client
// library. Boolean and integer attributes are pointers so that an absent
// attribute can be told apart from false/0; set attributes use nil for absent
// and "" for the empty set.
type Fingerprint struct {
	BrowserVersion      Version `json:"browserVersion,omitempty" validate:"omitempty,dotted_version"`
	BrowserMajorVersion Version `json:"browserMajorVersion,omitempty" validate:"omitempty,dotted_version"`
	IsIE                *bool   `json:"isIE,omitempty"`
	IsChrome            *bool   `json:"isChrome,omitempty"`
	IsFirefox           *bool   `json:"isFirefox,omitempty"`
	IsSafari            *bool   `json:"isSafari,omitempty"`
	IsOpera             *bool   `json:"isOpera,omitempty"`
	Engine              string  `json:"engine,omitempty"`
	EngineVersion       Version `json:"engineVersion,omitempty" validate:"omitempty,dotted_version"`
	OSVersion           Version `json:"osVersion,omitempty" validate:"omitempty,dotted_version"`
	IsWindows           *bool   `json:"isWindows,omitempty"`
	IsMac               *bool   `json:"isMac,omitempty"`
	IsLinux             *bool   `json:"isLinux,omitempty"`
	IsUbuntu            *bool   `json:"isUbuntu,omitempty"`
	IsSolaris           *bool   `json:"isSolaris,omitempty"`
	IsMobile            *bool   `json:"IsMobile,omitempty"`
	IsMobileMajor       *bool   `json:"isMobileMajor,omitempty"`
	IsMobileAndroid     *bool   `json:"isMobileAndroid,omitempty"`
	IsMobileOpera       *bool   `json:"isMobileOpera,omitempty"`
	IsMobileWindows     *bool   `json:"isMobileWindows,omitempty"`
	IsMobileBlackBerry  *bool   `json:"isMobileBlackBerry,omitempty"`
	IsMobileIOS         *bool   `json:"isMobileIOS,omitempty"`
	IsIphone            *bool   `json:"isIphone,omitempty"`
	IsIpad              *bool   `json:"isIpad,omitempty"`
	IsIpod              *bool   `json:"isIpod,omitempty"`
	ColorDepth          *int    `json:"colorDepth,omitempty" validate:"omitempty,gte=0"`
	CurrentResolution   string  `json:"currentResolution,omitempty"`
	Plugins             *string `json:"plugins,omitempty"`
	IsJava              *bool   `json:"isJava,omitempty"`
	IsFlash             *bool   `json:"isFlash,omitempty"`
	IsSilverlight       *bool   `json:"isSilverlight,omitempty"`
	MimeTypes           *string `json:"mimeTypes,omitempty"`
	IsMimeTypes         *bool   `json:"isMimeTypes,omitempty"`
	Fonts               *string `json:"fonts,omitempty"`
	IsLocalStorage      *bool   `json:"isLocalStorage,omitempty"`
	IsSessionStorage    *bool   `json:"isSessionStorage,omitempty"`
	IsCookie            *bool   `json:"isCookie,omitempty"`
	TimeZone            string  `json:"timeZone,omitempty"`
	Language            string  `json:"language,omitempty"`
	SystemLanguage      string  `json:"systemLanguage,omitempty"`
	IsCanvas            *bool   `json:"isCanvas,omitempty"`
}

// FingerprintWeights maps a fingerprint attribute name (its JSON key) to a
// non-negative weight. A nil map means unweighted averaging.
type FingerprintWeights map[string]float64

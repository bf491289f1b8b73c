// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package testinfra

import (
	"github.com/tomtom215/visitormatch/internal/models"
)

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Fingerprint returns a fully populated desktop Chrome on macOS fingerprint.
// Every call returns a fresh value that callers may modify.
func Fingerprint() *models.Fingerprint {
	return &models.Fingerprint{
		BrowserVersion:      "120.0.6099.109",
		BrowserMajorVersion: "120",
		IsIE:                Bool(false),
		IsChrome:            Bool(true),
		IsFirefox:           Bool(false),
		IsSafari:            Bool(false),
		IsOpera:             Bool(false),
		Engine:              "WebKit",
		EngineVersion:       "537.36",
		OSVersion:           "10.15.7",
		IsWindows:           Bool(false),
		IsMac:               Bool(true),
		IsLinux:             Bool(false),
		IsUbuntu:            Bool(false),
		IsSolaris:           Bool(false),
		IsMobile:            Bool(false),
		IsMobileMajor:       Bool(false),
		IsMobileAndroid:     Bool(false),
		IsMobileOpera:       Bool(false),
		IsMobileWindows:     Bool(false),
		IsMobileBlackBerry:  Bool(false),
		IsMobileIOS:         Bool(false),
		IsIphone:            Bool(false),
		IsIpad:              Bool(false),
		IsIpod:              Bool(false),
		ColorDepth:          Int(30),
		CurrentResolution:   "1512x982",
		Plugins:             String("PDF Viewer,Chrome PDF Viewer,Chromium PDF Viewer"),
		IsJava:              Bool(false),
		IsFlash:             Bool(false),
		IsSilverlight:       Bool(false),
		MimeTypes:           String("Portable Document Format,Portable Document Format"),
		IsMimeTypes:         Bool(true),
		Fonts:               String("Arial,Helvetica,Menlo,Monaco"),
		IsLocalStorage:      Bool(true),
		IsSessionStorage:    Bool(true),
		IsCookie:            Bool(true),
		TimeZone:            "Europe/Berlin",
		Language:            "de-DE",
		SystemLanguage:      "de-DE",
		IsCanvas:            Bool(true),
	}
}

// FirefoxOnWindows returns a fingerprint that differs from Fingerprint in
// browser, platform and most environment attributes.
func FirefoxOnWindows() *models.Fingerprint {
	fp := Fingerprint()
	fp.BrowserVersion = "121.0"
	fp.BrowserMajorVersion = "121"
	fp.IsChrome = Bool(false)
	fp.IsFirefox = Bool(true)
	fp.Engine = "Gecko"
	fp.EngineVersion = "121.0"
	fp.OSVersion = "10"
	fp.IsMac = Bool(false)
	fp.IsWindows = Bool(true)
	fp.ColorDepth = Int(24)
	fp.CurrentResolution = "1920x1080"
	fp.Plugins = String("PDF Viewer")
	fp.Fonts = String("Arial,Calibri,Segoe UI")
	fp.TimeZone = "America/New_York"
	fp.Language = "en-US"
	fp.SystemLanguage = "en-US"
	return fp
}

// London and Tokyo are IP geolocations used by the visitor fixtures.
var (
	London = models.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	Tokyo  = models.GeoPoint{Latitude: 35.6762, Longitude: 139.6503}
)

// Visitor returns a fully populated visitor profile seen in London.
func Visitor() *models.VisitorProfile {
	london := London
	return &models.VisitorProfile{
		IPs: []models.IPObservation{
			{IP: "81.2.69.160", Props: &london, UpdatedAt: models.MustParseTimestamp("2026-02-20 10:00:00")},
		},
		Visitor: &models.VisitorInfo{CreatedAt: models.MustParseTimestamp("2026-02-01 09:30:00")},
		Payment: &models.PaymentMethod{
			Brand:    "visa",
			ExpMonth: Int(4),
			ExpYear:  Int(2029),
			Last4:    "4242",
			Country:  "GB",
		},
		Address: &models.Address{
			Line1:      "221B Baker Street",
			Line2:      "Flat 2",
			City:       "London",
			Country:    "GB",
			PostalCode: "NW1 6XE",
			State:      "Greater London",
		},
		Identity: &models.Identity{
			Email:     "s.holmes@example.com",
			Phone:     "+442079460000",
			FirstName: "Sherlock",
			LastName:  "Holmes",
			Username:  "sholmes",
		},
	}
}

// VisitorInTokyo returns Visitor observed in Tokyo ten minutes after the
// London observation, which is physically implausible travel.
func VisitorInTokyo() *models.VisitorProfile {
	v := Visitor()
	tokyo := Tokyo
	v.IPs = []models.IPObservation{
		{IP: "203.0.113.7", Props: &tokyo, UpdatedAt: models.MustParseTimestamp("2026-02-20 10:10:00")},
	}
	return v
}

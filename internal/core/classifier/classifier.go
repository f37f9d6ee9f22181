// Package classifier maps a decoded logcat line onto the event taxonomy.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

// Result is the classification of a single line.
type Result struct {
	Category model.Category
	Subtype  string
}

// rule matches a line by tag substring and optionally refines the subtype
// from the message body. Rules are evaluated in declaration order and the
// first tag match wins; several tags are substrings of other tags' trigger
// context, so the ordering is load-bearing.
type rule struct {
	tags     []string
	category model.Category
	subtype  string
	refine   func(msg string) (string, bool)
}

var (
	brightnessPctRe  = regexp.MustCompile(`\(([\d.]+)%\)`)
	brightnessRawRe  = regexp.MustCompile(`brt=([\d.]+)`)
	brightnessEqRe   = regexp.MustCompile(`(?:brightness=|Brightness \[)([\d.]+)`)
	batteryLevelRe   = regexp.MustCompile(`level:?(\d+)`)
	launchCmpRe      = regexp.MustCompile(`cmp=([^ ]+)`)
	displayedCmpRe   = regexp.MustCompile(`Displayed ([^:]+)`)
	audioModeRe      = regexp.MustCompile(`(?i)mode[:= ]*(?:to )?(?:MODE_)?(IN_CALL|IN_COMMUNICATION|2|3)\b`)
	simSwapKeywords  = []string{"sim loaded", "sim changed", "carrier changed", "subscription changed", "iccid", "sim state changed"}
	voipCallKeywords = []string{"ringing", "incoming", "outgoing", "call ended", "ended", "missed", "voip"}
)

// DefaultMessagingApps are the VoIP-capable apps recognized by the
// cross-cutting secondary pass.
var DefaultMessagingApps = []string{"whatsapp", "telegram", "signal", "imo", "viber", "messenger"}

// Classifier applies the ordered rule table plus the VoIP secondary pass.
type Classifier struct {
	rules         []rule
	messagingApps []string
}

// New creates a Classifier with the default rule table.
func New(messagingApps []string) *Classifier {
	if len(messagingApps) == 0 {
		messagingApps = DefaultMessagingApps
	}
	return &Classifier{
		rules:         defaultRules(),
		messagingApps: messagingApps,
	}
}

// Classify returns the category and subtype for a logcat tag/message pair.
// Unmatched lines fall into SYSTEM_LOG with the tag as subtype.
func (c *Classifier) Classify(tag, msg string) Result {
	primary := c.classifyPrimary(tag, msg)

	if voip, ok := c.classifyVoip(tag, msg); ok {
		return voip
	}
	return primary
}

func (c *Classifier) classifyPrimary(tag, msg string) Result {
	for _, r := range c.rules {
		for _, t := range r.tags {
			if strings.Contains(tag, t) {
				subtype := r.subtype
				if r.refine != nil {
					// Extraction failure falls back to the rule's
					// generic label, never aborts classification.
					if refined, ok := r.refine(msg); ok {
						subtype = refined
					}
				}
				return Result{Category: r.category, Subtype: subtype}
			}
		}
	}
	return Result{Category: model.CategorySystemLog, Subtype: tag}
}

// classifyVoip is the cross-cutting secondary pass: a known messaging app
// plus call-state evidence overrides whatever the primary rule said. An
// AudioManager transition into IN_CALL(2)/IN_COMMUNICATION(3) counts as
// call-state evidence on its own.
func (c *Classifier) classifyVoip(tag, msg string) (Result, bool) {
	line := strings.ToLower(tag + " " + msg)

	app := ""
	for _, a := range c.messagingApps {
		if strings.Contains(line, a) {
			app = a
			break
		}
	}

	audioInCall := strings.Contains(tag, "AudioManager") && audioModeRe.MatchString(msg)

	if app != "" {
		if audioInCall {
			return Result{
				Category: model.CategoryVoip,
				Subtype:  fmt.Sprintf("VoIP Audio Active (%s)", titleCase(app)),
			}, true
		}
		for _, kw := range voipCallKeywords {
			if strings.Contains(line, kw) {
				return Result{
					Category: model.CategoryVoip,
					Subtype:  fmt.Sprintf("VoIP Call (%s)", titleCase(app)),
				}, true
			}
		}
	}

	if audioInCall {
		return Result{Category: model.CategoryVoip, Subtype: "Call Audio Active"}, true
	}
	return Result{}, false
}

func defaultRules() []rule {
	return []rule{
		{
			tags:     []string{"PowerManagerService"},
			category: model.CategorySystemPower,
			subtype:  "Power Event",
			refine: func(msg string) (string, bool) {
				if strings.Contains(msg, "Waking up") {
					return "Screen On", true
				}
				if strings.Contains(msg, "Going to sleep") {
					return "Screen Off", true
				}
				return "", false
			},
		},
		{
			tags:     []string{"DisplayPowerController"},
			category: model.CategorySystemDevice,
			subtype:  "Display Control",
			refine:   refineBrightness,
		},
		{
			tags:     []string{"BatteryService", "healthd"},
			category: model.CategorySystemPower,
			subtype:  "Battery Info",
			refine: func(msg string) (string, bool) {
				if m := batteryLevelRe.FindStringSubmatch(msg); m != nil {
					return "Battery " + m[1] + "%", true
				}
				return "", false
			},
		},
		{
			tags:     []string{"DreamManager"},
			category: model.CategorySystemPower,
			subtype:  "Doze/Sleep",
		},
		{
			tags:     []string{"Keyguard"},
			category: model.CategorySystemDevice,
			subtype:  "Keyguard Event",
			refine: func(msg string) (string, bool) {
				if strings.Contains(msg, "keyguardGoingAway") {
					return "User Present (Unlock)", true
				}
				if strings.Contains(msg, "onStartedWakingUp") {
					return "Keyguard Waking", true
				}
				return "", false
			},
		},
		{
			tags:     []string{"ActivityTaskManager", "ActivityManager"},
			category: model.CategorySystemApp,
			subtype:  "App Activity",
			refine:   refineActivity,
		},
		{
			tags:     []string{"PackageManager"},
			category: model.CategorySystemApp,
			subtype:  "Package Event",
		},
		{
			tags:     []string{"WifiService", "ConnectivityService", "NetworkController"},
			category: model.CategorySystemNetwork,
			subtype:  "Network Event",
		},
		{
			tags:     []string{"WindowManager"},
			category: model.CategorySystemDevice,
			subtype:  "Window Manager",
		},
		{
			tags:     []string{"InputManager"},
			category: model.CategorySystemDevice,
			subtype:  "Input Event",
		},
		{
			tags:     []string{"SensorService"},
			category: model.CategorySystemDevice,
			subtype:  "Sensor Event",
		},
		{
			tags:     []string{"SubscriptionController", "CarrierConfigLoader", "TelephonyRegistry"},
			category: model.CategorySystemSim,
			subtype:  "SIM/Carrier Event",
			refine: func(msg string) (string, bool) {
				lower := strings.ToLower(msg)
				for _, kw := range simSwapKeywords {
					if strings.Contains(lower, kw) {
						return "SIM Swap Detected", true
					}
				}
				if strings.Contains(lower, "carrier config") {
					return "Carrier Config Change", true
				}
				return "", false
			},
		},
		{
			tags:     []string{"Telecom", "InCall", "RIL", "GsmCdmaPhone"},
			category: model.CategorySystemRadio,
			subtype:  "Radio/Telecom Handshake",
			refine: func(msg string) (string, bool) {
				lower := strings.ToLower(msg)
				if strings.Contains(lower, "dial") || strings.Contains(lower, "outgoing") {
					return "System Outgoing Call", true
				}
				if strings.Contains(lower, "incoming") || strings.Contains(lower, "ringing") {
					return "System Incoming Call", true
				}
				return "", false
			},
		},
	}
}

// refineBrightness extracts a brightness percentage from the several shapes
// DisplayPowerController emits. Raw 0..1 values are scaled to percent.
func refineBrightness(msg string) (string, bool) {
	if strings.Contains(msg, "BrightnessEvent") {
		if m := brightnessPctRe.FindStringSubmatch(msg); m != nil {
			return "Brightness " + m[1] + "%", true
		}
		if m := brightnessRawRe.FindStringSubmatch(msg); m != nil {
			if val, err := strconv.ParseFloat(m[1], 64); err == nil {
				return fmt.Sprintf("Brightness %d%%", int(val*100)), true
			}
		}
		return "", false
	}
	if strings.Contains(msg, "brightness=") || strings.Contains(msg, "Brightness [") {
		if m := brightnessEqRe.FindStringSubmatch(msg); m != nil {
			if val, err := strconv.ParseFloat(m[1], 64); err == nil {
				pct := val
				if val <= 1.0 {
					pct = val * 100
				}
				return fmt.Sprintf("Brightness %d%%", int(pct)), true
			}
		}
	}
	return "", false
}

// refineActivity extracts launch/display component names from
// ActivityManager messages.
func refineActivity(msg string) (string, bool) {
	if strings.Contains(msg, "START u0") {
		if m := launchCmpRe.FindStringSubmatch(msg); m != nil {
			return "Launch: " + lastComponent(m[1]), true
		}
		return "App Launch", true
	}
	if strings.Contains(msg, "Displayed") {
		if m := displayedCmpRe.FindStringSubmatch(msg); m != nil {
			return "Displayed: " + lastComponent(strings.TrimSpace(m[1])), true
		}
		return "App Displayed", true
	}
	if strings.Contains(msg, "Process died") {
		return "App Crash/Kill", true
	}
	return "", false
}

func lastComponent(cmp string) string {
	if idx := strings.LastIndex(cmp, "/"); idx >= 0 {
		return cmp[idx+1:]
	}
	return cmp
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

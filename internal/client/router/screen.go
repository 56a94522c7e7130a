// Package router decides which part of the client a user may see.
//
// Screens are grouped into areas. The guard watches the session store and
// moves the user between the signed-out and signed-in areas when the
// session appears or goes away. Public screens are left alone.
package router

// Area is a group of screens sharing an access rule.
type Area int

const (
	AreaUnauthenticated Area = iota
	AreaAuthenticated
	AreaPublic
)

func (a Area) String() string {
	switch a {
	case AreaUnauthenticated:
		return "unauthenticated"
	case AreaAuthenticated:
		return "authenticated"
	case AreaPublic:
		return "public"
	}
	return "unknown"
}

type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenSignup         Screen = "signup"
	ScreenCheckEmail     Screen = "check-email"
	ScreenForgotPassword Screen = "forgot-password"

	ScreenUpdatePassword Screen = "update-password"
	ScreenAuthError      Screen = "auth-error"

	ScreenHome          Screen = "home"
	ScreenSearch        Screen = "search"
	ScreenListing       Screen = "listing"
	ScreenCreateListing Screen = "create-listing"
	ScreenProfile       Screen = "profile"
	ScreenEditProfile   Screen = "edit-profile"
	ScreenOnboarding    Screen = "onboarding"
	ScreenPreferences   Screen = "preferences"
)

var areas = map[Screen]Area{
	ScreenLogin:          AreaUnauthenticated,
	ScreenSignup:         AreaUnauthenticated,
	ScreenCheckEmail:     AreaUnauthenticated,
	ScreenForgotPassword: AreaUnauthenticated,

	ScreenUpdatePassword: AreaPublic,
	ScreenAuthError:      AreaPublic,

	ScreenHome:          AreaAuthenticated,
	ScreenSearch:        AreaAuthenticated,
	ScreenListing:       AreaAuthenticated,
	ScreenCreateListing: AreaAuthenticated,
	ScreenProfile:       AreaAuthenticated,
	ScreenEditProfile:   AreaAuthenticated,
	ScreenOnboarding:    AreaAuthenticated,
	ScreenPreferences:   AreaAuthenticated,
}

// Area reports the area the screen belongs to. Unknown screens are treated
// as public so the guard never bounces a screen it does not know about.
func (s Screen) Area() Area {
	if a, ok := areas[s]; ok {
		return a
	}
	return AreaPublic
}

// Screens lists every known screen of an area.
func Screens(a Area) []Screen {
	var out []Screen
	for s, sa := range areas {
		if sa == a {
			out = append(out, s)
		}
	}
	return out
}

// EntryScreen is where the guard sends the user on entering an area.
func EntryScreen(a Area) Screen {
	switch a {
	case AreaAuthenticated:
		return ScreenHome
	case AreaUnauthenticated:
		return ScreenLogin
	}
	return ScreenAuthError
}

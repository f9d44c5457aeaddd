package natsadapter

import (
	"testing"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

func TestLaunchSubject(t *testing.T) {
	cases := map[domain.AppID]string{
		domain.AppleMaps:       "navigation.launch.apple_maps",
		domain.YandexNavigator: "navigation.launch.yandex_navigator",
	}
	for app, want := range cases {
		if got := LaunchSubject(app); got != want {
			t.Errorf("LaunchSubject(%s) = %s, want %s", app, got, want)
		}
	}
}

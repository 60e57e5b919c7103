package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	t.Run("empty user agent returns unknown device", func(t *testing.T) {
		assert.Equal(t, "Unknown Device", DisplayName(""))
		assert.Equal(t, "Unknown Device", DisplayName("   "))
	})

	t.Run("unknown sentinel returns unknown device", func(t *testing.T) {
		assert.Equal(t, "Unknown Device", DisplayName("unknown"))
	})

	t.Run("chrome on desktop includes browser and OS", func(t *testing.T) {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		result := DisplayName(ua)
		assert.Contains(t, result, "Chrome")
		assert.Contains(t, result, "on")
	})

	t.Run("firefox on linux includes browser and OS", func(t *testing.T) {
		ua := "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
		result := DisplayName(ua)
		assert.Contains(t, result, "Firefox")
		assert.Contains(t, result, "on")
	})

	t.Run("result has no leading or trailing whitespace", func(t *testing.T) {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
		result := DisplayName(ua)
		assert.Equal(t, result, strings.TrimSpace(result))
		assert.NotEmpty(t, result)
	})
}

func TestDescribe(t *testing.T) {
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	t.Run("client values win", func(t *testing.T) {
		platform, browser := Describe("Windows", "Edge", ua)
		assert.Equal(t, "Windows", platform)
		assert.Equal(t, "Edge", browser)
	})

	t.Run("blanks are backfilled from the user agent", func(t *testing.T) {
		platform, browser := Describe("", "", ua)
		assert.NotEmpty(t, platform)
		assert.Equal(t, "Chrome", browser)
	})
}

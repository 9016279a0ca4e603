package video_downloader

import (
	"errors"
	"regexp"
	"testing"

	"github.com/hashicorp/go-multierror"
	assert_ "github.com/stretchr/testify/assert"
)

func testProvider(name string, platform Platform, priority int16, patterns ...string) Provider {
	p := Provider{Name: name, Platform: platform, Priority: priority}
	for _, pattern := range patterns {
		p.Patterns = append(p.Patterns, regexp.MustCompile(pattern))
	}
	return p
}

func TestProviderRegistryAdd(t *testing.T) {
	assert := assert_.New(t)
	var r ProviderRegistry

	assert.NoError(r.Add(testProvider("a", Facebook, PriorityDefault, `^a`)))
	assert.ErrorIs(r.Add(testProvider("a", Instagram, PriorityDefault, `^b`)), ErrDuplicateProvider)
	assert.ErrorIs(r.Add(testProvider("", Instagram, PriorityDefault, `^b`)), ErrInvalidProvider)
	assert.ErrorIs(r.Add(testProvider("b", Instagram, PriorityDefault)), ErrInvalidProvider)
	assert.ErrorIs(r.Add(testProvider("c", Unrecognized, PriorityDefault, `^c`)), ErrInvalidProvider)
	assert.Panics(func() { r.MustAdd(testProvider("a", Facebook, PriorityDefault, `^a`)) })
	assert.Equal([]string{"a"}, r.List())
}

func TestProviderRegistryPriority(t *testing.T) {
	assert := assert_.New(t)
	var r ProviderRegistry

	r.MustAdd(testProvider("late", YouTube, 30, `^https://`))
	r.MustAdd(testProvider("early", Facebook, 10, `^https://`))
	r.MustAdd(testProvider("middle", Instagram, 20, `^https://`))
	r.MustAdd(testProvider("middle-2", YouTube, 20, `^https://`))
	assert.Equal([]string{"early", "middle", "middle-2", "late"}, r.List())

	// Every provider matches, so the highest priority one wins
	match, err := r.Match("https://example.com")
	assert.NoError(err)
	assert.Equal("early", match.ProviderName)
	assert.Equal(Facebook, match.Platform)
}

func TestProviderRegistryMatch(t *testing.T) {
	assert := assert_.New(t)
	var r ProviderRegistry
	r.MustAdd(testProvider("fb", Facebook, 10, `^https://fb\.watch/\w+`))
	r.MustAdd(testProvider("yt", YouTube, 20, `^https://youtu\.be/.+`, `^https://youtube\.com/.+`))

	match, err := r.Match("https://youtube.com/watch?v=1")
	assert.NoError(err)
	assert.Equal("yt", match.ProviderName)
	assert.Equal(YouTube, r.Classify("https://youtu.be/abc"))

	// Anchored: a matching pattern later in the string doesn't count
	assert.Equal(Unrecognized, r.Classify("see https://fb.watch/abc"))

	_, err = r.Match("https://example.com")
	var merr *multierror.Error
	if assert.True(errors.As(err, &merr)) {
		assert.Len(merr.Errors, 2)
		assert.Contains(err.Error(), "[fb]")
		assert.Contains(err.Error(), "[yt]")
	}

	match, err = r.MatchWith("fb", "https://fb.watch/abc")
	assert.NoError(err)
	assert.Equal(Facebook, match.Platform)
	_, err = r.MatchWith("fb", "https://youtu.be/abc")
	assert.ErrorIs(err, ErrNoMatch)
	_, err = r.MatchWith("nope", "https://youtu.be/abc")
	assert.ErrorIs(err, ErrUnknownProvider)
}

func TestEmptyRegistry(t *testing.T) {
	assert := assert_.New(t)
	var r ProviderRegistry

	_, err := r.Match("https://youtu.be/abc")
	assert.ErrorIs(err, ErrNoMatch)
	assert.Equal(Unrecognized, r.Classify(""))
}

func TestPlatformNames(t *testing.T) {
	assert := assert_.New(t)

	assert.Equal("youtube", YouTube.String())
	assert.Equal("YouTube", YouTube.DisplayName())
	assert.Equal("Facebook", Facebook.DisplayName())
	assert.Equal("instagram", Instagram.String())
	assert.True(Instagram.IsRecognized())
	assert.False(Unrecognized.IsRecognized())
	assert.False(Platform(99).IsRecognized())
	assert.Equal("unrecognized", Platform(99).String())
}

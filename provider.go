package video_downloader

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrDuplicateProvider = errors.New("duplicate provider name")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrNoMatch           = errors.New("no pattern matched the input")
	ErrUnknownProvider   = errors.New("unknown provider")
)

var (
	PriorityHighest int16 = math.MinInt16
	PriorityDefault int16 = 0
	PriorityLowest  int16 = math.MaxInt16
)

// A Provider recognises the URL shapes of one Platform.
type Provider struct {
	Name     string
	Platform Platform
	// Patterns are tried in order. Each must be anchored with ^ so that it only matches a prefix of the input.
	Patterns []*regexp.Regexp
	// Priority of the provider, lower (including negative) means matching earlier.
	Priority int16
}

func (p Provider) WithName(name string) Provider {
	p.Name = name
	return p
}

func (p Provider) WithPriority(priority int16) Provider {
	p.Priority = priority
	return p
}

// Match returns nil if any of the provider's patterns match s, or ErrNoMatch.
func (p Provider) Match(s string) error {
	for _, pattern := range p.Patterns {
		if pattern.MatchString(s) {
			return nil
		}
	}
	return ErrNoMatch
}

// A Match is the result of a Provider successfully matching a URL.
type Match struct {
	ProviderName string
	Platform     Platform
}

// A ProviderRegistry is an ordered collection of Provider instances which can be used to classify URLs.
type ProviderRegistry struct {
	providers   []*Provider
	providerMap map[string]*Provider
}

// Add registers a Provider with the ProviderRegistry. Provider.Name must be unique within the ProviderRegistry,
// Provider.Platform must be a recognized platform and at least one pattern must be given.
func (r *ProviderRegistry) Add(p Provider) error {
	if r.providerMap == nil {
		r.providerMap = make(map[string]*Provider)
	}
	if p.Name == "" || len(p.Patterns) == 0 || !p.Platform.IsRecognized() {
		return ErrInvalidProvider
	}
	if _, ok := r.providerMap[p.Name]; ok {
		return ErrDuplicateProvider
	}
	r.providerMap[p.Name] = &p
	r.providers = append(r.providers, r.providerMap[p.Name])
	r.sortByPriority()
	return nil
}

// MustAdd wraps Add but panics if there is an error.
func (r *ProviderRegistry) MustAdd(p Provider) {
	if err := r.Add(p); err != nil {
		panic(fmt.Errorf("register provider %q: %w", p.Name, err))
	}
}

// List returns the names of registered providers in priority order.
func (r *ProviderRegistry) List() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name)
	}
	return names
}

// Match a string against each Provider in priority order. The first provider with a matching pattern wins; if none
// match, the error lists why each provider rejected the input.
func (r *ProviderRegistry) Match(s string) (*Match, error) {
	var result error
	for _, p := range r.providers {
		if err := p.Match(s); err == nil {
			return &Match{ProviderName: p.Name, Platform: p.Platform}, nil
		} else {
			result = multierror.Append(result, multierror.Prefix(err, fmt.Sprintf("[%v]", p.Name)))
		}
	}
	if result == nil {
		result = ErrNoMatch
	}
	return nil, result
}

// MatchWith will attempt to match a string against a specific provider.
func (r *ProviderRegistry) MatchWith(name string, s string) (*Match, error) {
	p, ok := r.providerMap[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	if err := p.Match(s); err != nil {
		return nil, err
	}
	return &Match{ProviderName: p.Name, Platform: p.Platform}, nil
}

// Classify returns the Platform of the first matching provider, or Unrecognized.
func (r *ProviderRegistry) Classify(s string) Platform {
	match, err := r.Match(s)
	if err != nil {
		return Unrecognized
	}
	return match.Platform
}

func (r *ProviderRegistry) sortByPriority() {
	sort.SliceStable(r.providers, func(i, j int) bool {
		return r.providers[i].Priority < r.providers[j].Priority
	})
}

var DefaultProviderRegistry ProviderRegistry

// Classify uses DefaultProviderRegistry. Providers register themselves when their package is imported, see the
// providers package.
func Classify(s string) Platform {
	return DefaultProviderRegistry.Classify(s)
}

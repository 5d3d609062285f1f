package services

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Likelihood values reported by Vision SafeSearch.
const (
	LikelihoodLikely     = "LIKELY"
	LikelihoodVeryLikely = "VERY_LIKELY"
)

type SafeSearchResult struct {
	Adult    string
	Violence string
	Racy     string
	Spoof    string
	Medical  string
}

func likelyOrWorse(l string) bool {
	return l == LikelihoodLikely || l == LikelihoodVeryLikely
}

// IsUnsafe flags adult, violent or racy content rated LIKELY or higher.
func (r *SafeSearchResult) IsUnsafe() bool {
	return likelyOrWorse(r.Adult) || likelyOrWorse(r.Violence) || likelyOrWorse(r.Racy)
}

// ImageModerator rates an image stored at a gs:// URI.
type ImageModerator interface {
	Detect(ctx context.Context, gcsURI string) (*SafeSearchResult, error)
}

// SafeSearchDetector runs Vision SAFE_SEARCH_DETECTION.
type SafeSearchDetector struct {
	svc *vision.Service
}

func NewSafeSearchDetector(ctx context.Context, opts ...option.ClientOption) (*SafeSearchDetector, error) {
	opts = append([]option.ClientOption{option.WithScopes(vision.CloudPlatformScope)}, opts...)
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &SafeSearchDetector{svc: svc}, nil
}

func (d *SafeSearchDetector) Detect(ctx context.Context, gcsURI string) (*SafeSearchResult, error) {
	call := d.svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Source: &vision.ImageSource{GcsImageUri: gcsURI}},
			Features: []*vision.Feature{{Type: "SAFE_SEARCH_DETECTION"}},
		}},
	})
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Responses) == 0 {
		return &SafeSearchResult{}, nil
	}
	if e := resp.Responses[0].Error; e != nil && e.Message != "" {
		return nil, fmt.Errorf("safesearch: %s", e.Message)
	}
	if resp.Responses[0].SafeSearchAnnotation == nil {
		return &SafeSearchResult{}, nil
	}

	ss := resp.Responses[0].SafeSearchAnnotation
	return &SafeSearchResult{
		Adult:    ss.Adult,
		Violence: ss.Violence,
		Racy:     ss.Racy,
		Spoof:    ss.Spoof,
		Medical:  ss.Medical,
	}, nil
}

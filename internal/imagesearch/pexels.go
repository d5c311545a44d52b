package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const DefaultPexelsURL = "https://api.pexels.com/v1/search"

// Pexels searches the Pexels photo API and downloads the first hit.
type Pexels struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
}

func NewPexels(apiKey, apiURL string, timeout time.Duration) *Pexels {
	if apiURL == "" {
		apiURL = DefaultPexelsURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Pexels{apiKey: apiKey, apiURL: apiURL, timeout: timeout}
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

var errNoPhoto = errors.New("no photo found")

func (p *Pexels) Find(ctx context.Context, query string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	a := fiber.Get(p.apiURL)
	a.QueryString("query=" + url.QueryEscape(query) + "&per_page=1")
	a.Set(fiber.HeaderAuthorization, p.apiKey)
	a.Timeout(p.timeout)
	var res searchResponse
	code, _, errs := a.Struct(&res)
	if len(errs) > 0 {
		return Image{}, fmt.Errorf("imagesearch: search: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return Image{}, fmt.Errorf("imagesearch: search status %d", code)
	}
	if len(res.Photos) == 0 || res.Photos[0].Src.Medium == "" {
		return Image{}, errNoPhoto
	}

	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)
	ia := fiber.Get(res.Photos[0].Src.Medium)
	ia.Timeout(p.timeout)
	ia.MaxRedirectsCount(3)
	ia.SetResponse(resp)
	code, body, errs := ia.Bytes()
	if len(errs) > 0 {
		return Image{}, fmt.Errorf("imagesearch: fetch: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK || len(body) == 0 {
		return Image{}, fmt.Errorf("imagesearch: fetch status %d", code)
	}
	ct := string(resp.Header.ContentType())
	if ct == "" {
		ct = "image/jpeg"
	}
	return Image{Bytes: append([]byte(nil), body...), ContentType: ct}, nil
}

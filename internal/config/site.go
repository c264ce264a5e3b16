package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteContent описывает контент лендинга.
type SiteContent struct {
	CompanyName  string        `yaml:"company_name" json:"company_name"`
	Tagline      string        `yaml:"tagline" json:"tagline"`
	ContactEmail string        `yaml:"contact_email" json:"contact_email"`
	StoreURL     string        `yaml:"store_url" json:"store_url,omitempty"`
	Solutions    []Solution    `yaml:"solutions" json:"solutions"`
	Reasons      []string      `yaml:"reasons" json:"reasons"`
	Audiences    []string      `yaml:"audiences" json:"audiences"`
	Testimonials []Testimonial `yaml:"testimonials" json:"testimonials"`
}

// Solution — карточка раздела "Our Solutions".
type Solution struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link,omitempty"`
}

// Testimonial — отзыв партнёра.
type Testimonial struct {
	Quote  string `yaml:"quote" json:"quote"`
	Author string `yaml:"author" json:"author"`
}

// DefaultSiteContent возвращает контент лендинга по умолчанию.
func DefaultSiteContent() *SiteContent {
	return &SiteContent{
		CompanyName:  "TribalDesk AI",
		Tagline:      "Empowering Tribal sovereignty with AI-driven grants, policies, and training.",
		ContactEmail: "info@tribaldeskai.com",
		Solutions: []Solution{
			{Title: "AI Writing Tools", Description: "Grant proposals, policies, reports — faster and clearer.", Link: "/proposals"},
			{Title: "Funding Platform", Description: "Track and manage funding opportunities tailored for Tribal communities.", Link: "/grants"},
			{Title: "Consulting & Training", Description: "Peacekeeping mediation programs, strategic planning, workshops."},
		},
		Reasons: []string{
			"Unmatched Tribal focus and cultural competency.",
			"Streamlined efficiency with AI.",
			"Accessible, affordable, and practical tools.",
		},
		Audiences: []string{
			"Tribal Governments & Courts",
			"Tribal Nonprofits",
			"Native-owned Small Businesses",
			"Grant Writers & Consultants",
		},
		Testimonials: []Testimonial{
			{Quote: "TribalDesk AI helped us cut our grant writing time by 70%.", Author: "Chief Admin, Example Nation"},
			{Quote: "Found funding we never knew existed.", Author: "CEO, Native-owned Business"},
		},
	}
}

// LoadSiteContent читает YAML с подстановкой переменных окружения поверх дефолтов.
// Пустой путь или отсутствующий файл дают контент по умолчанию.
func LoadSiteContent(path string) (*SiteContent, error) {
	site := DefaultSiteContent()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return site, nil
		}
		return nil, fmt.Errorf("config: не удалось прочитать %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), site); err != nil {
		return nil, fmt.Errorf("config: не удалось разобрать %s: %w", path, err)
	}

	return site, nil
}

// Site возвращает контент лендинга с учётом переопределений из окружения.
func (c *Config) Site() (*SiteContent, error) {
	site, err := LoadSiteContent(c.SiteConfigPath)
	if err != nil {
		return nil, err
	}
	if c.CompanyName != "" {
		site.CompanyName = c.CompanyName
	}
	if c.ContactEmail != "" {
		site.ContactEmail = c.ContactEmail
	}
	if c.StoreURL != "" {
		site.StoreURL = c.StoreURL
	}
	return site, nil
}

// OfferedModels возвращает список моделей для выбора в интерфейсе.
// Модель по умолчанию всегда первая, дубликаты убираются.
func (c *Config) OfferedModels() []string {
	candidates := []string{c.OpenAIModel, "gpt-4o", "gpt-4o-mini", "gpt-4.1-mini", "gpt-3.5-turbo"}
	seen := make(map[string]struct{}, len(candidates))
	models := make([]string, 0, len(candidates))
	for _, m := range candidates {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		models = append(models, m)
	}
	return models
}

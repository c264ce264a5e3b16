package entity

import "strings"

const (
	DefaultProjectTitle = "Untitled Project"
	DefaultOrganization = "N/A"
	DefaultFileName     = "proposal"
)

// Section — именованный раздел заявки.
type Section struct {
	Heading string
	Body    string
}

// ProposalDraft — черновик грантовой заявки, собранный из полей формы.
// Живёт только в рамках одного запроса и нигде не сохраняется.
type ProposalDraft struct {
	Organization   string `json:"org" yaml:"org"`
	Project        string `json:"project" yaml:"project"`
	Summary        string `json:"summary" yaml:"summary"`
	Need           string `json:"need" yaml:"need"`
	Goals          string `json:"goals" yaml:"goals"`
	Methods        string `json:"methods" yaml:"methods"`
	Evaluation     string `json:"evaln" yaml:"evaln"`
	Budget         string `json:"budget" yaml:"budget"`
	Sustainability string `json:"sustain" yaml:"sustain"`
	Sovereignty    string `json:"sovereignty" yaml:"sovereignty"`
}

// SectionHeadings — заголовки второго уровня в фиксированном порядке.
var SectionHeadings = []string{
	"Summary",
	"Needs Statement",
	"Goals & Objectives",
	"Methods / Activities",
	"Evaluation",
	"Budget",
	"Sustainability",
	"Alignment with Tribal Sovereignty & Culture",
}

// Title возвращает название проекта или значение по умолчанию.
func (d ProposalDraft) Title() string {
	if t := strings.TrimSpace(d.Project); t != "" {
		return t
	}
	return DefaultProjectTitle
}

// OrganizationName возвращает организацию или N/A.
func (d ProposalDraft) OrganizationName() string {
	if o := strings.TrimSpace(d.Organization); o != "" {
		return o
	}
	return DefaultOrganization
}

// Sections возвращает восемь разделов в порядке шаблона.
func (d ProposalDraft) Sections() []Section {
	bodies := []string{
		d.Summary,
		d.Need,
		d.Goals,
		d.Methods,
		d.Evaluation,
		d.Budget,
		d.Sustainability,
		d.Sovereignty,
	}
	sections := make([]Section, len(SectionHeadings))
	for i, heading := range SectionHeadings {
		sections[i] = Section{Heading: heading, Body: bodies[i]}
	}
	return sections
}

// Markdown собирает канонический Markdown черновика.
// Тексты разделов вставляются как есть, без экранирования.
func (d ProposalDraft) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + d.Title() + " — Proposal Draft\n")
	b.WriteString("Organization: " + d.OrganizationName() + "\n")
	b.WriteString("\n")
	for _, s := range d.Sections() {
		b.WriteString("## " + s.Heading + "\n")
		b.WriteString(s.Body + "\n")
	}
	return b.String()
}

// FileBaseName возвращает имя файла для выгрузки (без расширения).
func (d ProposalDraft) FileBaseName() string {
	if t := strings.TrimSpace(d.Project); t != "" {
		return t
	}
	return DefaultFileName
}

package ai

import (
	"fmt"
	"strings"
)

// buildPrompt renders the fixed template for the request type. Optional
// sections are omitted entirely when their input is empty.
func buildPrompt(req Request) string {
	var b strings.Builder
	if req.Type == TypeResume {
		fmt.Fprintf(&b, "Please format and optimize this resume for the %s position at %s.\n\n", req.Position, req.CompanyName)
		fmt.Fprintf(&b, "Job Description:\n%s\n\n", req.JobDescription)
		if req.ExistingContent != "" {
			fmt.Fprintf(&b, "Current Resume Content:\n%s\n\n", req.ExistingContent)
		}
		if req.UserExperience != "" {
			fmt.Fprintf(&b, "Additional Experience Context:\n%s\n\n", req.UserExperience)
		}
		b.WriteString(`Please:
1. Tailor the resume to match the job requirements
2. Use relevant keywords from the job description
3. Highlight relevant experience and skills
4. Maintain professional formatting
5. Keep it concise and impactful

Return only the formatted resume content.`)
		return b.String()
	}

	fmt.Fprintf(&b, "Please write a compelling cover letter for the %s position at %s.\n\n", req.Position, req.CompanyName)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", req.JobDescription)
	if req.ExistingContent != "" {
		fmt.Fprintf(&b, "Base Cover Letter Content:\n%s\n\n", req.ExistingContent)
	}
	if req.UserExperience != "" {
		fmt.Fprintf(&b, "My Background:\n%s\n\n", req.UserExperience)
	}
	b.WriteString(`Please:
1. Address the specific requirements mentioned in the job description
2. Show enthusiasm for the company and role
3. Highlight relevant experience and achievements
4. Keep it professional but engaging
5. End with a strong call to action

Return only the cover letter content.`)
	return b.String()
}

package ai

import (
	"context"
	"fmt"
	"time"
)

// LocalGenerator returns canned template text after a fixed delay. It needs
// no credentials and never fails, which makes it the default for development
// and the zero-config fallback in production.
type LocalGenerator struct {
	delay time.Duration
}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{delay: 2 * time.Second}
}

func (g *LocalGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		count("local", err)
		return nil, err
	}
	select {
	case <-time.After(g.delay):
	case <-ctx.Done():
	}
	count("local", nil)
	return &Response{
		Content:  mockContent(req),
		Provider: "local",
		Model:    "mock-ai",
	}, nil
}

func mockContent(req Request) string {
	if req.Type == TypeResume {
		return fmt.Sprintf(`# Professional Resume

## Contact Information
[Your Name]
[Your Email] | [Your Phone] | [Your Location]

## Professional Summary
Experienced professional with a strong background in [relevant field]. Proven track record of [key achievements]. Seeking to leverage skills and experience in the %s role at %s.

## Work Experience

### [Most Recent Job Title]
[Company Name] | [Dates]
- [Key achievement 1]
- [Key achievement 2]
- [Key achievement 3]

## Education
[Degree] in [Field of Study]
[University Name] | [Graduation Year]

## Skills
- [Relevant skill 1]
- [Relevant skill 2]
- [Relevant skill 3]

*This is a mock resume generated for demonstration. Please customize with your actual information.*`, req.Position, req.CompanyName)
	}

	return fmt.Sprintf(`Dear Hiring Manager,

I am writing to express my strong interest in the %s position at %s. With my background in [relevant field] and passion for [relevant area], I am excited about the opportunity to contribute to your team.

In my current role I have successfully [key achievement]. This experience has equipped me with the skills and knowledge that align with the requirements outlined in your job posting.

I am confident that my skills in [relevant skills] make me an ideal candidate for this position. I would welcome the opportunity to discuss how my experience can contribute to %s's continued success.

Thank you for considering my application.

Sincerely,
[Your Name]

*This is a mock cover letter generated for demonstration. Please customize with your actual information.*`, req.Position, req.CompanyName, req.CompanyName)
}

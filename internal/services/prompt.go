package services

import (
	"fmt"
)

type PromptBuilder struct {
	truncator *TextTruncator
}

// NewPromptBuilder returns a builder that bounds each embedded document with
// truncator. A nil truncator embeds documents unchanged.
func NewPromptBuilder(truncator *TextTruncator) *PromptBuilder {
	return &PromptBuilder{truncator: truncator}
}

// BuildQuestionGenerationPrompt creates the prompt asking for 20 numbered interview questions
func (pb *PromptBuilder) BuildQuestionGenerationPrompt(jobDescription, resume string) string {
	return fmt.Sprintf(`You are an expert technical interviewer. Your task is to generate a list of 20 interview questions based on the provided job description and candidate resume.

**Instructions:**
1.  **Analyze the Job Description and Resume:** Carefully compare the skills and experiences listed in the resume against the requirements in the job description.
2.  **Identify Key Areas:** Determine the most critical skills, technologies, and responsibilities for the role. Note where the candidate's experience is strong and where there are potential gaps.
3.  **Generate High-Quality Questions:** Create questions that directly probe the candidate's fitness for the job.
    *   **For Skills Listed on the Resume:** Ask specific, experience-based questions. Instead of "Do you know Python?", ask "The job requires extensive data processing with Pandas. Can you describe a complex data transformation you've implemented and the challenges you faced?"
    *   **For Gaps in Experience:** Ask questions that test the candidate's ability to learn and adapt. For example, if the job requires 'Terraform' and it's not on the resume, ask "This role involves managing infrastructure as code using Terraform. What is your experience with similar tools, and how would you approach getting up to speed with Terraform in the first few weeks?"
    *   **Behavioral Questions:** Tie behavioral questions directly to the job's context. Instead of a generic "Tell me about a time you worked on a team," ask "This role requires close collaboration with the product team. Can you give an example of a time you had to negotiate project requirements with a non-technical stakeholder?"
4.  **Strict Formatting:**
    *   Each question must be a complete, natural-sounding sentence.
    *   **DO NOT** use placeholders like `+"`[specific task from JD]`"+` or `+"`[key technologies from JD]`"+`.
    *   Format the output as a numbered list of questions.

**Input:**

**Job Description:**
%s

**Resume:**
%s

**Output (Numbered List of 20 Questions):**`,
		pb.bound(jobDescription), pb.bound(resume))
}

// BuildAnswerScoringPrompt creates the 30-point rubric prompt for one answer
func (pb *PromptBuilder) BuildAnswerScoringPrompt(jobDescription, resumeSummary, question, answer string) string {
	return fmt.Sprintf(`You are an expert technical interviewer and career coach.

A candidate is participating in a mock interview. You will evaluate their answer to one question based on the transcript of their response, the job description, and their resume.

Please follow this structure:

---
Job Description:
%s

Resume Summary:
%s

Interview Question:
%s

Transcript of Candidate's Answer:
%s
---

Based on this, do the following:

1. **Score the candidate's answer out of 30 points**, using this rubric:
   - Relevance to the question and job description (10 points)
   - Clarity and structure of the answer (10 points)
   - Communication style and confidence (based on tone inferred from the text) (10 points)

2. **Give 3 bullet points of detailed feedback**:
   - What was done well
   - What was missing or unclear
   - What could be improved in future answers

3. **Suggest 1 area the candidate should focus on to improve.**

4. **Final verdict**: Was the answer strong, average, or weak? (based on the total score and content)

Be objective, constructive, and supportive. Do not sugarcoat, but encourage growth.`,
		pb.bound(jobDescription), pb.bound(resumeSummary), question, answer)
}

// BuildInterviewSummaryPrompt creates the end-of-interview review prompt
func (pb *PromptBuilder) BuildInterviewSummaryPrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert technical interviewer and career coach reviewing a complete mock interview.

Below is every question the candidate answered, each followed by the feedback already given for that answer.

---
%s
---

Write an overall assessment that includes:
1. The candidate's strongest recurring qualities across the interview.
2. The most important recurring weaknesses.
3. Three concrete practice actions for the next interview.
4. An overall readiness verdict: ready, almost ready, or not ready yet.

Be objective, constructive, and supportive.`,
		transcript)
}

func (pb *PromptBuilder) bound(text string) string {
	if pb.truncator == nil {
		return text
	}
	return pb.truncator.Truncate(text)
}

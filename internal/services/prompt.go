package services

import (
	"fmt"
	"strings"
)

const (
	AgentName        = "resume_evaluator"
	AgentRole        = "Resume Evaluator"
	AgentGoal        = "Evaluate a resume against a job description and give a compatibility score out of 10 with a brief explanation."
	AgentBackstory   = "An experienced tech recruiter who compares resumes with job posts and gives objective feedback and scores based on qualifications and relevance."
	NoTextExtracted  = "No text extracted."
	evaluationOutput = `Score: X/10

Breakdown:
Core Technical Skills: X/4
Supporting Tech Stack: X/2
Soft Skills & Attitude: X/2
Language & Education: X/2

Explanation: [Your brief explanation]`
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAgentInstruction describes the evaluator persona and the exact answer format.
// It must stay free of curly braces, the agent runtime treats them as state placeholders.
func (pb *PromptBuilder) BuildAgentInstruction() string {
	return fmt.Sprintf(`You are the %s.
Goal: %s
Backstory: %s

Always answer in exactly this format:

%s`, AgentRole, AgentGoal, AgentBackstory, evaluationOutput)
}

// BuildEvaluationTask embeds the resume and the job description into the scoring task.
func (pb *PromptBuilder) BuildEvaluationTask(resumeText, jobPost string) string {
	return fmt.Sprintf(`You are an experienced tech recruiter. Evaluate the resume below based on the job description provided.

Scoring (out of 10):
1. Core Technical Skills (.NET, C#, SQL) – 4 points
2. Supporting Tech Stack (ReactJS, JS, NodeJS, VueJS, Python) – 2 points
3. Soft Skills (Agile, Teamwork, Curiosity, Security Awareness) – 2 points
4. Language & Education (French, English, Bachelor's in IT) – 2 points

Resume:
%s

Job Description:
%s

Expected output:
%s`,
		strings.TrimSpace(resumeText), strings.TrimSpace(jobPost), evaluationOutput)
}

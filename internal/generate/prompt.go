package generate

import "fmt"

// Generation types accepted by the API.
const (
	TypeLesson = "lesson"
	TypeMCQ    = "mcq"
	TypeSRQ    = "srq"
	TypeERQ    = "erq"
)

const defaultLessonWeeks = 8

// BuildPrompt renders the provider prompt for a generation type. Unknown
// types fall back to a generic lesson-plan prompt rather than erroring,
// matching the lenient request handling of the generate endpoint.
func BuildPrompt(contentType, curriculumText string, weeks int) string {
	switch contentType {
	case TypeLesson:
		if weeks <= 0 {
			weeks = defaultLessonWeeks
		}
		return fmt.Sprintf(`You are an expert education consultant specializing in curriculum design and lesson planning following pedagogical best practices.

Curriculum Content:
%s

Task: Create a comprehensive %d-week lesson plan that includes:

1. **Weekly Breakdown**: For each week, provide:
   - Week number and title
   - Learning objectives (3-5 per week)
   - Key concepts and topics
   - Suggested activities and teaching strategies
   - Assessment methods
   - Resources needed

2. **SLO (Student Learning Outcomes) Tagging**: For EACH learning objective, tag it with:
   - Bloom's Taxonomy Level (Remember, Understand, Apply, Analyze, Evaluate, Create)
   - Cognitive Domain (Knowledge, Comprehension, Application, Analysis, Synthesis, Evaluation)
   - Action Verb from Bloom's Taxonomy

3. **Pedagogical Best Practices**: Include:
   - Differentiation strategies
   - Formative and summative assessments
   - Active learning techniques
   - Technology integration suggestions

Format the output in clear sections with headings. Be specific and actionable for teachers.`, curriculumText, weeks)
	case TypeMCQ:
		return fmt.Sprintf(`Based on this curriculum content:
%s

Create 10 Multiple Choice Questions (MCQs) that:
- Cover different topics from the curriculum
- Follow Bloom's Taxonomy levels (mix of Remember, Understand, Apply, Analyze)
- Include 4 options each (A, B, C, D)
- Clearly indicate the correct answer
- Add a brief explanation for each answer

For EACH question, tag it with:
- Bloom's Taxonomy Level
- Topic/Concept tested
- Difficulty: Easy/Medium/Hard

Format: Question, Options, Correct Answer, Explanation, Tags`, curriculumText)
	case TypeSRQ:
		return fmt.Sprintf(`Based on this curriculum:
%s

Create 8 Short Response Questions (SRQs) that:
- Require 2-3 sentence answers
- Test understanding and application
- Cover key concepts
- Include model answers
- Tag with Bloom's Taxonomy level (Understand, Apply, Analyze)

Format: Question, Expected Answer Length, Model Answer, Bloom's Level`, curriculumText)
	case TypeERQ:
		return fmt.Sprintf(`Based on this curriculum:
%s

Create 5 Extended Response Questions (ERQs) that:
- Require paragraph-length answers (150-300 words)
- Test higher-order thinking (Analyze, Evaluate, Create)
- Include rubrics for assessment
- Provide model answers
- Tag with Bloom's Taxonomy level

Format: Question, Rubric, Model Answer, Bloom's Level, Assessment Criteria`, curriculumText)
	default:
		return fmt.Sprintf("Create a detailed lesson plan based on this curriculum: %s", curriculumText)
	}
}

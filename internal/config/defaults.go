package config

// GetDefaultStoryTemplate returns the default template for first-draft story generation.
// Placeholders: {guidelines}, {user_request}
func GetDefaultStoryTemplate() string {
	return `You are a talented children's storyteller who creates engaging, age-appropriate bedtime stories for children ages 5-10.

{guidelines}

STORY REQUEST:
{user_request}

Please create a complete bedtime story based on this request. The story should be engaging, have clear characters, and follow a satisfying story arc with a beginning, middle, and end.`
}

// GetDefaultEvaluationTemplate returns the default template for the judge.
// The response format below is what judge.ParseEvaluation understands.
// Placeholders: {guidelines}, {story}
func GetDefaultEvaluationTemplate() string {
	return `You are an expert evaluator of children's stories (ages 5-10). Evaluate the following story and provide detailed feedback.

{guidelines}

STORY TO EVALUATE:
{story}

Please evaluate this story on the following dimensions:
1. Age-appropriateness (1-10)
2. Narrative coherence (1-10)
3. Character development (1-10)
4. Engagement level (1-10)
5. Educational/moral value (1-10)

For each dimension, provide:
- A numerical score (1-10)
- Brief reasoning for your score
- Specific, actionable suggestions for improvement (if score < 8)

Format your response as follows:
DIMENSION: [Name]
SCORE: [X/10]
REASONING: [Brief explanation]
SUGGESTIONS: [Specific improvements, or 'No major improvements needed' if score >= 8]

After all dimensions, provide an OVERALL_ASSESSMENT and SUMMARY_OF_KEY_IMPROVEMENTS (if any).`
}

// GetDefaultCategorizationTemplate returns the default template for the categorizer.
// Placeholders: {user_request}
func GetDefaultCategorizationTemplate() string {
	return `You are a story classifier. Analyze the following story request and categorize it into one of these types:

CATEGORIES:
1. ADVENTURE - Stories about journeys, quests, exploration, discovery
2. FRIENDSHIP - Stories about relationships, helping friends, teamwork
3. MAGIC/FANTASY - Stories with magical elements, fantasy creatures, wonder
4. ANIMALS - Stories featuring animals as main characters
5. PROBLEM-SOLVING - Stories about overcoming challenges, puzzles, creativity
6. EVERYDAY - Stories about normal life situations, school, family
7. MIXED - Stories that combine multiple categories

STORY REQUEST:
{user_request}

Respond with ONLY the category name (e.g., 'ADVENTURE' or 'FRIENDSHIP') followed by a brief explanation (1-2 sentences) of why you chose this category.`
}

// GetDefaultRefinementTemplate returns the template used to rewrite a story from judge feedback.
// Placeholders: {guidelines}, {user_request}, {story}, {instructions}, {category}
func GetDefaultRefinementTemplate() string {
	return `You are a talented children's storyteller improving a bedtime story based on expert feedback.

{guidelines}

ORIGINAL STORY REQUEST:
{user_request}

CURRENT STORY:
{story}

FEEDBACK FOR IMPROVEMENT:
{instructions}

STORY CATEGORY: {category}

Please create an improved version of the story that addresses the feedback while maintaining the core story elements and ensuring it remains appropriate for children ages 5-10. The story should be complete and engaging.`
}

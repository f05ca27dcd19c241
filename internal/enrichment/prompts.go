package enrichment

// moodPrompt asks for a single integer 1-5. Anything else in the response
// is treated as unusable and clears the mood.
const moodPrompt = `
Task:
To analyse the text and return a single number from 1 to 5 indicating the mood of the user where 1 is very unhappy and 5 is very happy.

# Example 1
Text: I have had such an awful day, I got fired from my job for absolutely no reason at all.
Response: 1

# Example 2
Text: My cat just had kittens and they are the cutest things I have ever seen.
Response: 5

# Example 3
Text: I am feeling okay, I've not had much motivation today, I think I need to get more sleep.
Response: 3

# Example 4
Text: I've just learned to cook a risotto, finally. Took me long enough, it turned out okay but could definitely do with a bit more salt next time.
Response: 4

####################

Text: {content}
Response:
`

// actionsPrompt asks for a JSON array of at most three short imperative
// strings.
const actionsPrompt = `
Task:
To analyse the text and return a list of maximum three todo list items implied by the text, in JSON format.

# Example 1 - No actions implied.
Text: I have had such an awful day, I got fired from my job for absolutely no reason at all.
Response: []

# Example 2 - One action implied.
Text: My cat just had kittens and they are the cutest things I have ever seen. I must remember to get them chipped.
Response: ["Remember to get kittens chipped"]

# Example 3 - No action implied because it's a broad sweeping statement.
Text: I am feeling okay, I've not had much motivation today, I think I need to get more sleep.
Response: []

# Example 4 - One action implied, processed into concrete action.
Text: I am feeling okay, I've not had much motivation today, I think I need to get more sleep. I read that going to bed at the same time every day can help.
Response: ["Decided on a time to go to bed every day."]

# Example 5 - Two actions implied.
Text: Quick note to self, need to grab more butter. Also need to remember to call mum.
Response: ["Grab more butter", "Remember to call mum"]

####################

Text: {content}
Response:
`

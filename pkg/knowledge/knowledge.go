// Package knowledge holds the built-in study material the retrieval demos
// search over.
package knowledge

// Journal is the free-text document split into chunks for keyword RAG.
const Journal = `
AI Architect Learning Journey

Day 1: Learned Groq API, prompt engineering, and built first AI script.
Day 2: Built a memory chatbot using conversation history and system prompts.
Day 3: Built a persistent AI tutor that saves and loads sessions using JSON.
Day 4: Learning RAG — Retrieval Augmented Generation.

Key Skills for AI Architect:
- Go programming
- Groq and OpenAI APIs
- LangChain for building AI apps
- PyTorch for deep learning
- AWS/GCP for cloud deployment

Salary Goals:
- Year 1-2: 12-25 LPA
- Year 3-4: 30-60 LPA
- Year 5-7: 70-120 LPA
- Year 8-10: 1.5 CR+
`

// Documents is the fact list embedded for semantic search.
var Documents = []string{
	"Day 1: Built first Groq API script. Learned prompt engineering and .env file setup.",
	"Day 2: Built memory chatbot using conversation history and system prompts.",
	"Day 3: Built persistent AI tutor that saves sessions using JSON file storage.",
	"Day 4: Built RAG system using keyword matching to answer from documents.",
	"Day 5: Built AI Agent with 4 tools — calculator, datetime, search, save note.",
	"Day 6: Built Multi-Agent pipeline with Researcher, Writer, Critic, Manager agents.",
	"Day 7: Built Full Stack Web App with elegant dark UI running in browser.",
	"Day 8: Learned LangChain — prompt templates, conversation memory, chain chaining.",
	"AI Architect salary: Year 1-2 is 12-25 LPA, Year 3-4 is 30-60 LPA, Year 5-7 is 70-120 LPA, Year 8-10 is 1.5 CR+",
	"Key AI Architect skills: Go, Groq API, LangChain, PyTorch, AWS, Vector Databases, RAG systems, AI Agents.",
	"Vector embeddings convert text into numbers so computers can find similar meanings.",
	"ChromaDB is a free open source vector database perfect for local AI development.",
	"RAG stands for Retrieval Augmented Generation — AI that reads your own documents.",
	"LangChain is the industry standard framework used in 80% of production AI apps.",
	"Multi-agent systems use specialized agents — each with one job — to solve complex problems.",
}

// SampleQueries exercise the semantic search before the interactive loop.
var SampleQueries = []string{
	"What have I learned about memory?",
	"How much money will I make?",
	"What tools did my agent have?",
	"How do I store AI knowledge?",
}

package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sage/pkg/llm"
)

var _ = Describe("DecodeConversationRequest", func() {
	It("decodes a complete request", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{
			"message": "hi",
			"history": [{"role": "user", "content": "hello"}, {"role": "assistant", "content": "hey"}],
			"system": "be brief",
			"isRelationshipMode": true
		}`))
		Expect(err).NotTo(HaveOccurred())

		Expect(req.Message).To(Equal("hi"))
		Expect(req.History).To(Equal([]llm.Turn{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hey"},
		}))
		Expect(req.System).NotTo(BeNil())
		Expect(*req.System).To(Equal("be brief"))
		Expect(req.RelationshipMode).To(BeTrue())
	})

	It("returns defaults for an empty body", func() {
		req, err := llm.DecodeConversationRequest(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(req).To(Equal(llm.ConversationRequest{}))
	})

	It("returns defaults for an empty object", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Message).To(BeEmpty())
		Expect(req.History).To(BeNil())
		Expect(req.System).To(BeNil())
		Expect(req.RelationshipMode).To(BeFalse())
	})

	It("treats a null system as no override", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{"message": "hi", "system": null}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req.System).To(BeNil())
	})

	It("keeps an empty system string as an override", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{"system": ""}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req.System).NotTo(BeNil())
		Expect(*req.System).To(BeEmpty())
	})

	It("degrades mistyped fields to their defaults", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{
			"message": 42,
			"history": "not a list",
			"system": {"nested": true},
			"isRelationshipMode": "yes"
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req).To(Equal(llm.ConversationRequest{}))
	})

	It("decodes history entries with missing or mistyped fields as empty strings", func() {
		req, err := llm.DecodeConversationRequest([]byte(`{
			"history": [{"role": "user"}, {"content": "orphan"}, {"role": 7, "content": "x"}, 5]
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req.History).To(Equal([]llm.Turn{
			{Role: "user", Content: ""},
			{Role: "", Content: "orphan"},
			{Role: "", Content: "x"},
			{},
		}))
	})

	It("rejects a body that is not JSON", func() {
		_, err := llm.DecodeConversationRequest([]byte(`message=hi`))
		Expect(err).To(MatchError(llm.ErrInvalidBody))
	})
})

var _ = Describe("Turn", func() {
	It("normalizes the role", func() {
		Expect(llm.Turn{Role: "  ASSISTANT "}.NormalizedRole()).To(Equal(llm.RoleAssistant))
	})
})

package deptree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferDomain(t *testing.T) {
	tests := []struct {
		path, content, want string
	}{
		{"src/auth/login.ts", "", DomainAuthentication},
		{"src/users/list.ts", "", DomainUserManagement},
		{"src/userService.ts", "", DomainUserManagement},
		{"src/catalog.ts", "const product = {}", DomainProductCatalog},
		{"src/api/routes.ts", "", DomainAPI},
		{"src/db/models.ts", "", DomainData},
		{"src/components/Button.tsx", "", DomainPresentation},
		{"x.ts", "// business logic here", DomainBusinessLogic},
		{"lib/math.ts", "export const add = 1;", DomainGeneral},
		// auth is checked before user.
		{"src/userAuth.ts", "", DomainAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDomain(tt.path, tt.content))
		})
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		path, content, want string
	}{
		{"src/controllers/user.ts", "", RoleController},
		{"src/paymentService.ts", "", RoleService},
		{"src/userRepository.ts", "", RoleRepository},
		{"src/utils/format.ts", "", RoleUtility},
		{"src/app.config.ts", "", RoleConfiguration},
		{"src/a.test.ts", "", RoleTest},
		{"src/Button.tsx", "import React from 'react'", RoleUIComponent},
		{"src/x.ts", "", RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRole(tt.path, tt.content))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	content := "export class UserService {}\n" +
		"function getUser() {}\n" +
		"export interface UserModel {}\n" +
		"// charges the payment provider\n"

	kw := ExtractKeywords("src/userService.ts", content, 10)

	assert.Contains(t, kw, "user")
	assert.Contains(t, kw, "userservice")
	assert.Contains(t, kw, "getuser")
	assert.Contains(t, kw, "usermodel")
	assert.Contains(t, kw, "payment")
	assert.LessOrEqual(t, len(kw), 10)

	seen := make(map[string]bool)
	for _, k := range kw {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
}

func TestExtractKeywords_Cap(t *testing.T) {
	kw := ExtractKeywords("orderPaymentInvoiceReport.ts", "user customer product", 2)
	assert.Len(t, kw, 2)
}

func TestSplitCamelCase(t *testing.T) {
	assert.Equal(t, []string{"user", "Service"}, splitCamelCase("userService"))
	assert.Equal(t, []string{"XML", "Parser"}, splitCamelCase("XMLParser"))
	assert.Equal(t, []string{"index"}, splitCamelCase("index"))
	assert.Nil(t, splitCamelCase(""))
	assert.Equal(t, []string{"user", "auth"}, fileNameWords("user-auth_v2"))
}

func semanticNode(id, p, domain, role string, keywords ...string) *Node {
	return &Node{ID: id, Path: p, Kind: KindFile, BusinessDomain: domain, ArchitecturalRole: role, Keywords: keywords}
}

func TestSimilarity_Bounds(t *testing.T) {
	a := semanticNode("a", "src/a.ts", DomainPayments, RoleService, "pay", "card")
	same := semanticNode("b", "src/b.ts", DomainPayments, RoleService, "pay", "card")
	other := semanticNode("c", "lib/c.ts", DomainGeneral, RoleUnknown)

	assert.InDelta(t, 1.0, Similarity(a, same), 1e-9)
	assert.Zero(t, Similarity(a, other))
	assert.Zero(t, Similarity(other, semanticNode("d", "docs/d.ts", DomainGeneral, RoleUnknown)))
	assert.InDelta(t, 0.3+0.4*(1.0/3.0), Similarity(a, semanticNode("e", "x/e.ts", DomainPayments, RoleModel, "pay", "refund")), 1e-9)

	for _, x := range []*Node{a, same, other} {
		for _, y := range []*Node{a, same, other} {
			s := Similarity(x, y)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	}
}

func TestComputeSimilarities_SymmetricAndCapped(t *testing.T) {
	nodes := []*Node{
		semanticNode("a", "src/a.ts", DomainPayments, RoleService, "pay"),
		semanticNode("b", "src/b.ts", DomainPayments, RoleService, "pay"),
		semanticNode("c", "src/c.ts", DomainPayments, RoleService, "pay"),
	}

	mappings := ComputeSimilarities(nodes, SemanticOptions{MaxSimilar: 1, Threshold: 0.3})

	require.Len(t, mappings, 3)
	assert.Equal(t, "a", mappings[0].NodeA)
	assert.Equal(t, "b", mappings[0].NodeB)
	assert.InDelta(t, 1.0, mappings[0].Score, 1e-9)
	assert.Equal(t, []string{"b"}, nodes[0].SimilarNodes)
	assert.Equal(t, []string{"a"}, nodes[1].SimilarNodes)
	assert.Empty(t, nodes[2].SimilarNodes)

	byID := map[string]*Node{"a": nodes[0], "b": nodes[1], "c": nodes[2]}
	for _, n := range nodes {
		for _, s := range n.SimilarNodes {
			assert.NotEqual(t, n.ID, s)
			assert.Contains(t, byID[s].SimilarNodes, n.ID)
		}
	}
}

func TestComputeSimilarities_ThresholdIsExclusive(t *testing.T) {
	nodes := []*Node{
		semanticNode("a", "src/a.ts", DomainPayments, RoleUnknown),
		semanticNode("b", "lib/b.ts", DomainPayments, RoleUnknown),
	}
	assert.Empty(t, ComputeSimilarities(nodes, DefaultSemanticOptions()))
}

func TestSemanticClusters(t *testing.T) {
	nodes := []*Node{
		semanticNode("p1", "a/p1.ts", DomainPayments, RoleModel, "pay"),
		semanticNode("p2", "b/p2.ts", DomainPayments, RoleService, "pay"),
		semanticNode("u1", "c/u1.ts", DomainUserManagement, RoleModel),
		semanticNode("g1", "d/g1.ts", DomainGeneral, RoleModel),
		semanticNode("g2", "e/g2.ts", DomainGeneral, RoleService),
	}
	mappings := ComputeSimilarities(nodes, DefaultSemanticOptions())

	clusters := SemanticClusters(nodes, mappings)

	require.Len(t, clusters, 2)
	domain := clusters[0]
	assert.Equal(t, "domain:"+DomainPayments, domain.ID)
	assert.Equal(t, ClusterDomain, domain.Kind)
	assert.Equal(t, []string{"p1", "p2"}, domain.Members)
	// p1/p2 share only domain and keywords: 0.3 + 0.4.
	assert.InDelta(t, 0.7, domain.Cohesion, 1e-9)

	role := clusters[1]
	assert.Equal(t, "role:"+RoleModel, role.ID)
	assert.Equal(t, []string{"g1", "p1", "u1"}, role.Members)
	// Six member/non-member pairs; only p1-p2 scores (domain and keywords).
	assert.InDelta(t, 0.7/6, role.Coupling, 1e-9)
}

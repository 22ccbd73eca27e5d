package schema

// Style is a named architectural style accepted by generate_architecture.
type Style string

const (
	StyleMonolithic    Style = "monolithic"
	StyleMicroservices Style = "microservices"
	StyleLayered       Style = "layered"
	StyleEventDriven   Style = "event-driven"
	StyleServerless    Style = "serverless"
	StyleServiceMesh   Style = "service-mesh"
	StyleMultiCloud    Style = "multi-cloud"
	StyleHybridCloud   Style = "hybrid-cloud"
	StyleEdgeComputing Style = "edge-computing"
	StyleDataMesh      Style = "data-mesh"
	StyleAIMLCentric   Style = "ai-ml-centric"
	StyleHexagonal     Style = "hexagonal"
	StyleBlockchain    Style = "blockchain-based"
	StyleSOA           Style = "service-oriented-architecture"
	StyleReactive      Style = "reactive"
	StyleActorBased    Style = "actor-based"
	StylePipeAndFilter Style = "pipe-and-filter"
	StyleSpaceBased    Style = "space-based"
)

// DefaultStyle is used when a generate request names no style.
const DefaultStyle = StyleMicroservices

// Styles lists every accepted style in declaration order.
var Styles = []Style{
	StyleMonolithic, StyleMicroservices, StyleLayered, StyleEventDriven,
	StyleServerless, StyleServiceMesh, StyleMultiCloud, StyleHybridCloud,
	StyleEdgeComputing, StyleDataMesh, StyleAIMLCentric, StyleHexagonal,
	StyleBlockchain, StyleSOA, StyleReactive, StyleActorBased,
	StylePipeAndFilter, StyleSpaceBased,
}

// AnalyzeInput is the validated argument set of analyze_architecture.
type AnalyzeInput struct {
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Constraints  []string `json:"constraints,omitempty"`
	Domain       string   `json:"domain"`
}

// GenerateInput is the validated argument set of generate_architecture.
type GenerateInput struct {
	Requirements []string `json:"requirements"`
	Style        Style    `json:"style,omitempty"`
	Domain       string   `json:"domain"`
}

// EvaluateInput is the validated argument set of evaluate_architecture.
// Architecture is passed through without structural checks.
type EvaluateInput struct {
	Architecture map[string]any `json:"architecture"`
	Criteria     []string       `json:"criteria"`
	Domain       string         `json:"domain"`
}

// QualityMetrics scores an analyzed architecture per quality concern.
type QualityMetrics struct {
	Maintainability float64 `json:"maintainability"`
	Scalability     float64 `json:"scalability"`
	Reliability     float64 `json:"reliability"`
	Security        float64 `json:"security"`
	Performance     float64 `json:"performance"`
}

// AnalysisResult is the output of analyze_architecture.
type AnalysisResult struct {
	Strengths       []string       `json:"strengths"`
	Weaknesses      []string       `json:"weaknesses"`
	Recommendations []string       `json:"recommendations"`
	ComplianceScore float64        `json:"complianceScore"`
	QualityMetrics  QualityMetrics `json:"qualityMetrics"`
}

// Overview summarizes a generated design.
type Overview struct {
	Style       string   `json:"style"`
	Principles  []string `json:"principles"`
	Constraints []string `json:"constraints"`
}

// Interfaces lists what a component consumes and produces.
type Interfaces struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}

// Component is one building block of a generated design.
type Component struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	Responsibilities []string   `json:"responsibilities"`
	Interfaces       Interfaces `json:"interfaces"`
}

// Relationship links two components by id.
type Relationship struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Pattern is a design pattern applied by a generated design.
type Pattern struct {
	Name      string   `json:"name"`
	Context   string   `json:"context"`
	Benefits  []string `json:"benefits"`
	Tradeoffs []string `json:"tradeoffs"`
}

// DeploymentStrategy describes how a design is rolled out.
type DeploymentStrategy struct {
	Environment  string   `json:"environment"`
	Requirements []string `json:"requirements"`
	Steps        []string `json:"steps"`
}

// QualityAttribute describes one quality goal and how it is measured.
type QualityAttribute struct {
	Description string   `json:"description"`
	Measures    []string `json:"measures"`
}

// ArchitectureDesign is the output of generate_architecture.
type ArchitectureDesign struct {
	Overview           Overview                    `json:"overview"`
	Components         []Component                 `json:"components"`
	Relationships      []Relationship              `json:"relationships"`
	Patterns           []Pattern                   `json:"patterns"`
	DeploymentStrategy DeploymentStrategy          `json:"deploymentStrategy"`
	QualityAttributes  map[string]QualityAttribute `json:"qualityAttributes"`
}

// RiskLevel grades a risk found during evaluation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Summary is the headline of an evaluation.
type Summary struct {
	OverallScore     float64  `json:"overallScore"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	CriticalFindings []string `json:"criticalFindings"`
}

// Metric is one scored evaluation criterion.
type Metric struct {
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	Description     string   `json:"description"`
	Findings        []string `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

// Risk is one risk found during evaluation.
type Risk struct {
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
	Mitigations []string  `json:"mitigations"`
}

// Compliance records conformance to one standard.
type Compliance struct {
	Standard    string   `json:"standard"`
	Compliant   bool     `json:"compliant"`
	Gaps        []string `json:"gaps"`
	Remediation []string `json:"remediation"`
}

// Recommendations splits evaluation advice by horizon.
type Recommendations struct {
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

// ArchitectureEvaluation is the output of evaluate_architecture.
type ArchitectureEvaluation struct {
	Summary         Summary         `json:"summary"`
	Metrics         []Metric        `json:"metrics"`
	Risks           []Risk          `json:"risks"`
	Compliance      []Compliance    `json:"compliance"`
	Recommendations Recommendations `json:"recommendations"`
}
